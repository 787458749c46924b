// Package cli implements the appmodel debugging tool: parse and evaluate
// when-clause expressions, and dry-run keybinding resolution, from the
// command line.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"appmodel/appctx"
	"appmodel/log"
)

var logToFile bool

var rootCmd = &cobra.Command{
	Use:   "appmodel",
	Short: "Inspect when-clause expressions and keybinding resolution",
	Long: `appmodel is a debugging companion for hosts embedding the appmodel
registries. It parses and evaluates context expressions against ad-hoc
context values and dry-runs keybinding conflict resolution.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logToFile {
			log.Initialize()
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logToFile {
			log.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log", false, "also write diagnostics to the appmodel log file")
	rootCmd.AddCommand(parseCmd, evalCmd, resolveCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func init() {
	// Plain output when not writing to a terminal (pipes, CI).
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		plain := lipgloss.NewStyle()
		headerStyle = plain
		winnerStyle = plain
		mutedStyle = plain
		errorStyle = plain
	}
}

// parseContextFlags turns repeated "key=value" flags into a context view.
// Values are coerced: true/false, numbers, everything else a string.
func parseContextFlags(pairs []string) (appctx.View, error) {
	view := appctx.View{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("context value %q is not key=value", pair)
		}
		view[key] = coerceScalar(value)
	}
	return view, nil
}

func coerceScalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
