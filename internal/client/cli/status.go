package cli

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/topokeeper/internal/client/session"
)

func (c *Cli) statusCommand() *cobra.Command {
	var prune time.Duration
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show map, account and mirror status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				return c.runStatus(ctx, s, prune)
			})
		},
	}
	cmd.Flags().DurationVar(&prune, "prune-dumps", 0, "remove debug dumps older than this age")
	return cmd
}

func (c *Cli) runStatus(ctx context.Context, s *session.Session, prune time.Duration) error {
	cfg := s.Config()
	cursor := s.Engine.Cursor()

	c.io.Println("=== Map Status ===")
	c.io.Println()
	c.io.Printf("Map:      %s\n", cfg.MapID)
	c.io.Printf("Server:   %s\n", cfg.BaseURL())
	if cfg.Signed() {
		c.io.Printf("Account:  %s\n", cfg.ID)
	} else {
		c.io.Println("Account:  none (unsigned requests)")
	}
	c.io.Printf("Synced:   %s (server time %d)\n",
		cursor.LastCompletion.Format(time.RFC3339), cursor.LastServerTimestamp)
	c.io.Printf("Features: %d\n", s.Store.Len())

	ids := s.Store.IDs()
	for _, class := range slices.Sorted(maps.Keys(ids)) {
		c.io.Printf("  %-18s %d\n", class, len(ids[class]))
	}

	dump := s.Dump()
	if dump == nil {
		return nil
	}
	if prune > 0 {
		before := cursor.LastServerTimestamp - prune.Milliseconds()
		removed, err := dump.Prune(ctx, before)
		if err != nil {
			return err
		}
		c.io.Printf("Pruned %d dump(s)\n", removed)
	}
	snapshots, err := dump.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	last, err := dump.LastSyncTimestamp(ctx)
	if err != nil {
		return err
	}
	c.io.Printf("Dumps:    %d snapshot(s) in %s, last at %d\n", len(snapshots), cfg.DumpPath, last)
	return nil
}
