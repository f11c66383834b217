package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iudanet/topokeeper/internal/client/geoedit"
	"github.com/iudanet/topokeeper/internal/client/session"
)

type geoOp func(e *geoedit.Engine, ctx context.Context, target, operand geoedit.Operand, opts geoedit.Options) (*geoedit.Result, error)

func (c *Cli) geoCommand(use, short, example string, op geoOp) *cobra.Command {
	var opts geoedit.Options
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: example,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := cmd.Name()
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				res, err := op(s.Geo, ctx, geoedit.ByRef(args[0]), geoedit.ByRef(args[1]), opts)
				if err != nil {
					return err
				}
				c.printResult(name, res)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.DeleteOperand, "delete-operand", false, "delete the second feature after a successful edit")
	return cmd
}

func (c *Cli) cutCommand() *cobra.Command {
	return c.geoCommand("cut <target> <cutter>",
		"Remove the cutter from the target; a line splits a polygon along itself",
		`  topokeeper --map ABC cut "Zone 1" "Creek"`,
		(*geoedit.Engine).Cut)
}

func (c *Cli) cropCommand() *cobra.Command {
	return c.geoCommand("crop <target> <boundary>",
		"Keep only the part of the target inside the boundary polygon",
		`  topokeeper --map ABC crop "AA 101" "Segment boundary" --delete-operand`,
		(*geoedit.Engine).Crop)
}

func (c *Cli) expandCommand() *cobra.Command {
	return c.geoCommand("expand <target> <operand>",
		"Merge the operand into the target",
		`  topokeeper --map ABC expand "Zone 1" "Zone 1 addition"`,
		(*geoedit.Engine).Expand)
}

func (c *Cli) bufferCommand() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:     "buffer <target> <meters>",
		Short:   "Create a polygon at a distance around a marker, line or polygon",
		Example: `  topokeeper --map ABC buffer LKP 500 --title "LKP 500m"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			meters, err := strconv.ParseFloat(args[1], 64)
			if err != nil || meters <= 0 {
				return fmt.Errorf("invalid buffer distance %q, expected positive meters", args[1])
			}
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				res, err := s.Geo.Buffer(ctx, geoedit.ByRef(args[0]), meters, title)
				if err != nil {
					return err
				}
				c.printResult("buffer", res)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title of the new shape, default \"<target> buffer\"")
	return cmd
}
