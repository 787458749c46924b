package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"appmodel/expr"
	"appmodel/log"
)

var evalContext []string

var parseCmd = &cobra.Command{
	Use:   "parse EXPR",
	Short: "Parse a when-clause expression and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := expr.Parse(args[0])
		if err != nil {
			return formatParseError(args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), treeString(e, 0))
		return nil
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval EXPR",
	Short: "Evaluate a when-clause expression against context values",
	Example: `  appmodel eval 'panel.focused && !readonly' -c panel.focused=true
  appmodel eval 'count > 2' -c count=5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := expr.Parse(args[0])
		if err != nil {
			return formatParseError(args[0], err)
		}
		view, err := parseContextFlags(evalContext)
		if err != nil {
			return err
		}
		if logToFile {
			log.InfoLog.Printf("eval %q against %d context values", args[0], len(view))
		}
		result := expr.Evaluate(e, view)
		fmt.Fprintf(cmd.OutOrStdout(), "%v\n", result)
		if _, isBool := result.(bool); !isBool {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("truthy: %v", expr.Truthy(result))))
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().StringArrayVarP(&evalContext, "context", "c", nil, "context value as key=value (repeatable)")
}

// formatParseError points at the offending offset, caret-style.
func formatParseError(src string, err error) error {
	var syn *expr.SyntaxError
	if !errors.As(err, &syn) {
		return err
	}
	caret := strings.Repeat(" ", syn.Offset) + "^"
	return fmt.Errorf("%s\n  %s\n  %s", err, src, errorStyle.Render(caret))
}

// treeString renders an expression tree with one node per line, indented by
// depth.
func treeString(e expr.Expr, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch n := e.(type) {
	case expr.Constant:
		return indent + "const " + n.String()
	case expr.ContextRef:
		return indent + "ref " + n.Key
	case expr.Not:
		return indent + "not\n" + treeString(n.Operand, depth+1)
	case expr.And:
		return indent + "and\n" + treeString(n.Left, depth+1) + "\n" + treeString(n.Right, depth+1)
	case expr.Or:
		return indent + "or\n" + treeString(n.Left, depth+1) + "\n" + treeString(n.Right, depth+1)
	case expr.Compare:
		return indent + n.Op.String() + "\n" + treeString(n.Left, depth+1) + "\n" + treeString(n.Right, depth+1)
	case expr.In:
		return indent + "in\n" + treeString(n.Needle, depth+1) + "\n" + treeString(n.Haystack, depth+1)
	}
	return indent + "?"
}
