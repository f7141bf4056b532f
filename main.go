package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/z77ma/aspnetcore/cmd"
	"github.com/z77ma/aspnetcore/internal/lint"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, lint.ErrDiagnosticsFound) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
