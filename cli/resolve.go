package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"appmodel/expr"
	"appmodel/keys"
	"appmodel/registry"
)

var (
	resolveBinds   []string
	resolveContext []string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve CHORD",
	Short: "Dry-run keybinding resolution for a chord",
	Long: `resolve builds a throwaway keybinding registry from --bind flags and
reports which binding wins for the given chord under the given context.

Each --bind takes the form

    chord=command[?when][@weight]

e.g. --bind 'ctrl+k=edit.cut?editor.focused@200'. Later binds shadow
earlier ones at equal weight, the same rule the registry applies.`,
	Example: `  appmodel resolve ctrl+k \
      --bind 'ctrl+k=edit.cut?editor.focused' \
      --bind 'ctrl+k=panel.close?panel.open@200' \
      -c editor.focused=true -c panel.open=true`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chord, err := keys.ParseSequence(args[0])
		if err != nil {
			return err
		}
		view, err := parseContextFlags(resolveContext)
		if err != nil {
			return err
		}

		reg := registry.NewKeybindings()
		for _, spec := range resolveBinds {
			binding, err := parseBindSpec(spec)
			if err != nil {
				return err
			}
			reg.Register(binding)
		}

		out := cmd.OutOrStdout()
		winner, ok := reg.Resolve(chord, view)

		candidates := reg.Candidates(chord)
		if len(candidates) > 0 {
			fmt.Fprintln(out, headerStyle.Render("candidates for "+chord.String()))
			printCandidates(cmd, candidates, view, winner, ok)
		}

		if !ok {
			fmt.Fprintln(out, mutedStyle.Render("no active binding; chord falls through to the host"))
			return nil
		}
		fmt.Fprintln(out, winnerStyle.Render("-> "+string(winner)))
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringArrayVar(&resolveBinds, "bind", nil, "binding as chord=command[?when][@weight] (repeatable)")
	resolveCmd.Flags().StringArrayVarP(&resolveContext, "context", "c", nil, "context value as key=value (repeatable)")
}

func printCandidates(cmd *cobra.Command, candidates []registry.Keybinding, view expr.View, winner registry.CommandID, resolved bool) {
	out := cmd.OutOrStdout()

	width := 0
	for _, c := range candidates {
		if w := runewidth.StringWidth(string(c.Command)); w > width {
			width = w
		}
	}

	for _, c := range candidates {
		name := runewidth.FillRight(string(c.Command), width)
		when := "always"
		if c.When != nil {
			when = c.When.String()
		}
		line := fmt.Sprintf("  %s  weight=%-4d when=%s", name, c.Weight, when)
		switch {
		case resolved && c.Command == winner:
			fmt.Fprintln(out, winnerStyle.Render(line))
		case !expr.EvaluateBool(c.When, view):
			fmt.Fprintln(out, mutedStyle.Render(line+"  (inactive)"))
		default:
			fmt.Fprintln(out, line)
		}
	}
}

// parseBindSpec parses "chord=command[?when][@weight]".
func parseBindSpec(spec string) (registry.Keybinding, error) {
	chordText, rest, found := strings.Cut(spec, "=")
	if !found || chordText == "" || rest == "" {
		return registry.Keybinding{}, fmt.Errorf("binding %q is not chord=command", spec)
	}
	chord, err := keys.ParseSequence(chordText)
	if err != nil {
		return registry.Keybinding{}, err
	}

	weight := registry.WeightDefault
	if cmdPart, weightPart, has := strings.Cut(rest, "@"); has {
		w, err := strconv.Atoi(weightPart)
		if err != nil {
			return registry.Keybinding{}, fmt.Errorf("binding %q has malformed weight %q", spec, weightPart)
		}
		weight = w
		rest = cmdPart
	}

	var when expr.Expr
	if cmdPart, whenPart, has := strings.Cut(rest, "?"); has {
		when, err = expr.Parse(whenPart)
		if err != nil {
			return registry.Keybinding{}, formatParseError(whenPart, err)
		}
		rest = cmdPart
	}

	return registry.Keybinding{
		Chord:   chord,
		Command: registry.CommandID(rest),
		When:    when,
		Weight:  weight,
	}, nil
}
