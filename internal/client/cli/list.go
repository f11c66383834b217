package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/topokeeper/internal/client/query"
	"github.com/iudanet/topokeeper/internal/client/session"
	"github.com/iudanet/topokeeper/internal/models"
)

func (c *Cli) listCommand() *cobra.Command {
	var (
		title   string
		letter  string
		exclude []string
	)
	cmd := &cobra.Command{
		Use:   "list [class]",
		Short: "List cached features, optionally of one class",
		Example: `  topokeeper --map ABC list
  topokeeper --map ABC list Assignment --letter A`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var class string
			if len(args) == 1 {
				class = args[0]
			}
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				return c.runList(ctx, s, class, title, letter, exclude)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "only features with this exact title")
	cmd.Flags().StringVar(&letter, "letter", "", "only assignments whose title starts with this letter")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "classes to skip")
	return cmd
}

func (c *Cli) runList(ctx context.Context, s *session.Session, classArg, title, letter string, exclude []string) error {
	class, err := parseClass(classArg)
	if err != nil {
		return err
	}
	filter := query.Filter{Class: class, Title: title, Letter: letter, AllowMultiple: true}
	for _, e := range exclude {
		filter.ExcludeClasses = append(filter.ExcludeClasses, models.Class(e))
	}

	var features []*models.Feature
	if filter.Class == "" && filter.Title == "" && filter.Letter == "" {
		features = s.Store.Find(func(f *models.Feature) bool {
			return !slices.Contains(filter.ExcludeClasses, f.Class)
		})
	} else {
		features, err = s.Query.GetFeatures(ctx, filter)
		if err != nil {
			return err
		}
	}

	if len(features) == 0 {
		c.io.Println("No features found.")
		return nil
	}

	c.io.Printf("Found %d feature(s):\n\n", len(features))
	for _, f := range features {
		c.io.Printf("  %-36s  %-18s  %s\n", f.ID, f.Class, strings.TrimSpace(f.Title()))
	}
	return nil
}
