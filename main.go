// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"loopsafe/repl"
)

const historyFile = ".loopsafe_history"

func main() {
	currentUser, err := user.Current()
	if err != nil {
		fmt.Printf("Error getting current user: %v\n", err)
		return
	}

	fmt.Printf("Welcome to the loopsafe REPL, %s!\n", currentUser.Username)
	fmt.Println("Paste a module to keep it, or a contract to check its loops.")

	if !liner.TerminalSupported() {
		repl.Start(repl.NewScannerReader(os.Stdin, os.Stdout), os.Stdout, nil)
		return
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := filepath.Join(currentUser.HomeDir, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	repl.Start(ln, os.Stdout, func(unit string) {
		ln.AppendHistory(strings.ReplaceAll(unit, "\n", " "))
	})
}
