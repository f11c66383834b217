package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iudanet/topokeeper/internal/client/edit"
	"github.com/iudanet/topokeeper/internal/client/session"
)

func (c *Cli) deleteCommand() *cobra.Command {
	var class string
	cmd := &cobra.Command{
		Use:   "delete <id|title>...",
		Short: "Delete features on the server",
		Long: `Delete features on the server. All references are resolved first, nothing
is deleted if any of them is missing or ambiguous. The local mirror drops the features
on the next sync.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				return c.runDelete(ctx, s, args, class)
			})
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "restrict title lookup to this class")
	return cmd
}

func (c *Cli) runDelete(ctx context.Context, s *session.Session, refs []string, classArg string) error {
	class, err := parseClass(classArg)
	if err != nil {
		return err
	}

	targets := make([]edit.Ref, 0, len(refs))
	for _, ref := range refs {
		f, err := s.Query.Resolve(ctx, ref, class)
		if err != nil {
			return err
		}
		targets = append(targets, edit.Ref{Class: f.Class, ID: f.ID})
	}

	if err := s.Edit.DeleteMany(ctx, targets); err != nil {
		return err
	}
	for _, t := range targets {
		c.io.Printf("DELETED %s %s\n", t.ID, t.Class)
	}
	return nil
}
