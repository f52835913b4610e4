package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu      sync.RWMutex
	crashHandler func(r any)
)

// SetCrashHandler replaces the process-level panic handler used by Go
// Passing nil restores the default (stack trace to stderr, exit 1)
func SetCrashHandler(fn func(r any)) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashHandler = fn
}

// HandleCrash is the unified panic handler that prints the stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.RLock()
	fn := crashHandler
	crashMu.RUnlock()
	if fn != nil {
		fn(r)
		return
	}

	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\nCRASH DETECTED: %v\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword for engine-owned goroutines.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

// Recover runs fn and converts a panic into an error
// Used where a crash must stay local to one goroutine (bot workers)
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn()
}
