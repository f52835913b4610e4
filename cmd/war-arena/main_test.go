package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const circler = `
function botinit()
  drive(90, 40)
  while true do
    if scan(270, 10) > 0 then
      cannon(270, 100)
    end
    if speed() == 0 then
      drive(heading() + 90, 40)
    end
  end
end
`

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeBot(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("output %q missing version %q", out, version)
	}
}

func TestConfigCmdAppliesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	if err := os.WriteFile(path, []byte("game:\n  max_cycles: 1234\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "config", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "max_cycles: 1234") {
		t.Errorf("config output missing override:\n%s", out)
	}
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	good := writeBot(t, dir, "good.lua", circler)
	bad := writeBot(t, dir, "bad.lua", "function helper() end")

	out, err := execute(t, "check", good)
	if err != nil {
		t.Fatalf("check good: %v", err)
	}
	if !strings.Contains(out, "good") || !strings.Contains(out, "OK") {
		t.Errorf("check output = %q", out)
	}

	out, err = execute(t, "check", good, bad)
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("check bad = %v, want ErrCheckFailed", err)
	}
	if !strings.Contains(out, "bad") || !strings.Contains(out, "FAIL") {
		t.Errorf("check output = %q", out)
	}
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	left := writeBot(t, dir, "left.lua", circler)
	right := writeBot(t, dir, "right.lua", circler)
	events := filepath.Join(dir, "events.jsonl")

	out, err := execute(t, "run", "--cycles", "200", "--seed", "5", "--events", events, left, right)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	for _, want := range []string{"match ended:", "left", "right", "engine.cycles = "} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(events); err != nil {
		t.Errorf("event log not created: %v", err)
	}
}

func TestRunRejectsTooManyBots(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.lua", "b.lua", "c.lua", "d.lua"} {
		paths = append(paths, writeBot(t, dir, name, circler))
	}

	_, err := execute(t, append([]string{"run", "--cycles", "10"}, paths...)...)
	if !errors.Is(err, ErrTooManyBots) {
		t.Fatalf("run = %v, want ErrTooManyBots", err)
	}
}

func TestRunAbortsOnBadBot(t *testing.T) {
	dir := t.TempDir()
	good := writeBot(t, dir, "good.lua", circler)
	bad := writeBot(t, dir, "bad.lua", "function botinit(")

	if _, err := execute(t, "run", "--cycles", "10", good, bad); err == nil {
		t.Fatal("run with a broken bot succeeded under the abort policy")
	}

	out, err := execute(t, "run", "--cycles", "10", "--exclude-failed", good, bad)
	if err != nil {
		t.Fatalf("run --exclude-failed: %v", err)
	}
	if !strings.Contains(out, "excluded") {
		t.Errorf("report does not list the excluded bot:\n%s", out)
	}
}
