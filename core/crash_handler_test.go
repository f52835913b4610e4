package core

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestRecoverConvertsPanic(t *testing.T) {
	err := Recover(func() error {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected error from panicking function")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not carry panic value", err)
	}
}

func TestRecoverPassesError(t *testing.T) {
	want := errors.New("plain")
	if got := Recover(func() error { return want }); !errors.Is(got, want) {
		t.Errorf("Recover returned %v, want %v", got, want)
	}
}

func TestGoRoutesPanicToHandler(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	var got any
	SetCrashHandler(func(r any) {
		got = r
		wg.Done()
	})
	defer SetCrashHandler(nil)

	Go(func() { panic("handled") })
	wg.Wait()

	if got != "handled" {
		t.Errorf("handler received %v, want %q", got, "handled")
	}
}
