package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/ingobeans/toad/pkg/browser"
	"github.com/ingobeans/toad/pkg/term"
)

func main() {
	t, err := term.Open()
	if err != nil {
		log.Fatalf("opening terminal: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			// get the terminal usable again before reporting
			t.Close()
			writeCrashReport(r, debug.Stack())
			log.Fatalf("toad crashed: %v (report written to crash.txt)", r)
		}
	}()

	b, err := browser.New(t, browser.LoadSettings())
	if err != nil {
		t.Close()
		log.Fatalf("starting browser: %v", err)
	}

	err = b.Run()
	t.Close()
	if err != nil {
		log.Fatalf("terminal output: %v", err)
	}
}

// writeCrashReport saves the panic and stack next to the executable,
// falling back to the working directory.
func writeCrashReport(cause any, stack []byte) {
	report := fmt.Sprintf("toad crashed: %v\n\n%s", cause, stack)
	path := "crash.txt"
	if exe, err := os.Executable(); err == nil {
		path = filepath.Join(filepath.Dir(exe), "crash.txt")
	}
	os.WriteFile(path, []byte(report), 0o644)
}
