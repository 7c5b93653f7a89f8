package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// fatih/color disables itself when stdout is not a terminal.
var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

func printSection(title string) {
	fmt.Println()
	_, _ = headerColor.Printf("=== %s ===\n", title)
}

func printSubsection(title string) {
	fmt.Println()
	_, _ = infoColor.Printf("--- %s ---\n", title)
}

func printSuccess(line string) {
	_, _ = successColor.Println(line)
}

func printWarning(line string) {
	_, _ = warningColor.Println(line)
}

// printFailure finishes a table row with a failed run's error.
func printFailure(msg string) {
	_, _ = warningColor.Printf("failed: %s\n", msg)
}

func printError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "error: %s\n", msg)
}
