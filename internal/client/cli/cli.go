// Package cli implements the cobra commands of the topokeeper client.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/topokeeper/internal/client/config"
	"github.com/iudanet/topokeeper/internal/client/iocli"
	"github.com/iudanet/topokeeper/internal/client/session"
)

// OpenFunc открывает сессию. Подменяется в тестах.
type OpenFunc func(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...session.Option) (*session.Session, error)

// Cli состояние одного запуска клиента
type Cli struct {
	io      iocli.IO
	open    OpenFunc
	getenv  func(string) string
	logger  *slog.Logger
	cfg     config.Config
	version string
}

// New создает CLI с IO и функцией открытия сессии
func New(io iocli.IO, open OpenFunc, version string) *Cli {
	if open == nil {
		open = session.Open
	}
	return &Cli{
		io:      io,
		open:    open,
		getenv:  os.Getenv,
		cfg:     config.Default(),
		version: version,
	}
}

// RootCommand собирает дерево команд
func (c *Cli) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "topokeeper",
		Short: "Mirror and edit features of a remote map",
		Long: `topokeeper keeps a local mirror of a remote map in sync and edits its
features: markers, lines, polygons and assignments.

Credentials priority (highest to lowest):
  1. --id / --key flags
  2. TOPOKEEPER_ID / TOPOKEEPER_KEY environment variables
  3. --config INI file, section named by --account
  4. Interactive prompt for the key`,
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogger()
		},
	}
	root.SetOut(c.io)
	root.SetErr(c.io)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.Domain, "domain", c.cfg.Domain, "map server host[:port] or URL")
	flags.StringVar(&c.cfg.MapID, "map", "", "map id")
	flags.StringVar(&c.cfg.ConfigFile, "config", "", "INI file with account credentials")
	flags.StringVar(&c.cfg.Account, "account", "", "account section in the config file")
	flags.StringVar(&c.cfg.ID, "id", "", "account id used to sign requests")
	flags.StringVar(&c.cfg.Key, "key", "", "account key (base64), not recommended, use env or config")
	flags.StringVar(&c.cfg.DumpPath, "dump", "", "write debug dumps of every merge to this bbolt file")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level: debug, info, warn, error")
	flags.DurationVar(&c.cfg.SyncTimeout, "timeout", c.cfg.SyncTimeout, "timeout of one request")

	root.AddCommand(
		c.syncCommand(),
		c.listCommand(),
		c.getCommand(),
		c.addCommand(),
		c.cutCommand(),
		c.cropCommand(),
		c.expandCommand(),
		c.bufferCommand(),
		c.deleteCommand(),
		c.statusCommand(),
	)
	return root
}

// Execute выполняет команду с аргументами args
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (c *Cli) setupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.cfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.cfg.LogLevel, err)
	}
	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// openSession открывает сессию. background включает фоновый цикл синхронизации.
func (c *Cli) openSession(ctx context.Context, background bool, opts ...session.Option) (*session.Session, error) {
	cfg := c.cfg
	cfg.Sync = background

	if err := cfg.Resolve(c.getenv); err != nil {
		return nil, err
	}
	if err := cfg.PromptKey(c.io); err != nil {
		return nil, err
	}

	s, err := c.open(ctx, cfg, c.logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open map %s: %w", cfg.MapID, err)
	}
	return s, nil
}

// withSession открывает сессию без фонового цикла, выполняет fn и закрывает сессию
func (c *Cli) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session.Session) error) error {
	ctx := cmd.Context()
	s, err := c.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			c.logger.Error("Failed to close session", "error", err)
		}
	}()
	return fn(ctx, s)
}
