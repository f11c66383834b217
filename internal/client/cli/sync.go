package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/topokeeper/internal/client/session"
	"github.com/iudanet/topokeeper/internal/client/sync"
	"github.com/iudanet/topokeeper/internal/models"
)

func (c *Cli) syncCommand() *cobra.Command {
	var (
		interval time.Duration
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Keep the mirror in sync and print every change until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval > 0 {
				c.cfg.SyncInterval = interval
			}
			return c.runSync(cmd.Context(), duration)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "polling interval (default 5s)")
	cmd.Flags().DurationVar(&duration, "for", 0, "stop after this long, 0 = until interrupted")
	return cmd
}

func (c *Cli) runSync(ctx context.Context, duration time.Duration) error {
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	var syncs int
	callbacks := sync.Callbacks{
		OnNewFeature: func(f *models.Feature) {
			c.io.Printf("NEW      %s %s %s\n", f.ID, f.Class, f.Title())
		},
		OnPropertyChanged: func(f *models.Feature) {
			c.io.Printf("PROPS    %s %s %s\n", f.ID, f.Class, f.Title())
		},
		OnGeometryChanged: func(f *models.Feature) {
			c.io.Printf("GEOMETRY %s %s %s\n", f.ID, f.Class, f.Title())
		},
		OnDeletedFeature: func(id string, class models.Class) {
			c.io.Printf("DELETED  %s %s\n", id, class)
		},
		OnSyncCompleted: func() { syncs++ },
	}

	s, err := c.openSession(ctx, true, session.WithCallbacks(callbacks))
	if err != nil {
		return err
	}
	c.io.Printf("Synced %d feature(s) from map %s, watching for changes...\n", s.Store.Len(), s.Config().MapID)

	<-ctx.Done()
	disabled := s.Engine.Disabled()
	if err := s.Close(); err != nil {
		return err
	}

	c.io.Printf("Stopped after %d sync(s)\n", syncs)
	if disabled {
		c.io.Println("Background sync was disabled after a failure, see the log for details.")
	}
	return nil
}
