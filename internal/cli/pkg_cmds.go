package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"

	"github.com/iowarp/jarvis/internal/paramspec"
)

func newPkgCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pkg",
		Short: "Inspect the available package types",
	}
	cmd.AddCommand(newPkgListCmd(s), newPkgHelpCmd(s))
	return cmd
}

func newPkgListCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered package types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(s.outW, 0, 4, 2, ' ', 0)
			for _, pkgType := range s.reg.Types() {
				def, err := s.reg.Lookup(pkgType)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", def.Type, def.Kind, def.Description)
			}
			return w.Flush()
		},
	}
}

func newPkgHelpCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "help <pkg_type>",
		Short: "Show a package type's parameter menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := s.reg.Lookup(args[0])
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			fmt.Fprintf(s.outW, "%s (%s): %s\n\n", def.Type, def.Kind, def.Description)
			w := tabwriter.NewWriter(s.outW, 0, 4, 2, ' ', 0)
			for _, param := range def.Menu {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
					param.Name, param.Type.FriendlyName(), describeDefault(param), param.Msg)
			}
			return w.Flush()
		},
	}
}

// describeDefault renders a parameter's default column for help output.
func describeDefault(p paramspec.Param) string {
	switch {
	case p.Required:
		return "required"
	case p.Default == cty.NilVal:
		return "-"
	case len(p.Choices) > 0:
		return fmt.Sprintf("%s (%s)", p.Default.AsString(), strings.Join(p.Choices, "|"))
	case p.Type.Equals(cty.String):
		return p.Default.AsString()
	case p.Type.Equals(cty.Bool):
		if p.Default.True() {
			return "true"
		}
		return "false"
	default:
		return p.Default.AsBigFloat().Text('g', -1)
	}
}
