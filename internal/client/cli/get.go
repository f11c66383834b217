package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/topokeeper/internal/client/session"
)

func (c *Cli) getCommand() *cobra.Command {
	var class string
	cmd := &cobra.Command{
		Use:   "get <id|title>",
		Short: "Show full feature details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				return c.runGet(ctx, s, args[0], class)
			})
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "restrict title lookup to this class")
	return cmd
}

func (c *Cli) runGet(ctx context.Context, s *session.Session, ref, classArg string) error {
	class, err := parseClass(classArg)
	if err != nil {
		return err
	}
	f, err := s.Query.Resolve(ctx, ref, class)
	if err != nil {
		return err
	}
	out, err := renderFeature(f)
	if err != nil {
		return err
	}
	c.io.Printf("%s", out)
	return nil
}
