package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/topokeeper/internal/client/edit"
	"github.com/iudanet/topokeeper/internal/client/session"
	"github.com/iudanet/topokeeper/internal/models"
)

func (c *Cli) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new feature",
	}

	var (
		folder      string
		description string
		color       string
	)
	cmd.PersistentFlags().StringVar(&folder, "folder", "", "folder id or title")
	cmd.PersistentFlags().StringVar(&description, "description", "", "feature description")
	cmd.PersistentFlags().StringVar(&color, "color", "", "marker or stroke color, e.g. #FF0000")

	cmd.AddCommand(&cobra.Command{
		Use:   "folder <title>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				f, err := s.Edit.AddFolder(ctx, args[0])
				return c.printCreated(f, err)
			})
		},
	})

	var symbol string
	marker := &cobra.Command{
		Use:     "marker <title> <lon,lat>",
		Short:   "Create a marker",
		Example: `  topokeeper --map ABC add marker LKP -120.1,39.2 --color "#00FF00"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := parseCoord(args[1])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				folderID, err := c.resolveFolder(ctx, s, folder)
				if err != nil {
					return err
				}
				f, err := s.Edit.AddMarker(ctx, coord.Lon(), coord.Lat(), edit.MarkerOptions{
					Title:       args[0],
					Description: description,
					Color:       color,
					Symbol:      symbol,
					FolderID:    folderID,
				})
				return c.printCreated(f, err)
			})
		},
	}
	marker.Flags().StringVar(&symbol, "symbol", "", "marker symbol")
	cmd.AddCommand(marker)

	var width float64
	line := &cobra.Command{
		Use:   "line <title> <lon,lat> <lon,lat>...",
		Short: "Create a line",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := parseCoords(args[1:], 2)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				folderID, err := c.resolveFolder(ctx, s, folder)
				if err != nil {
					return err
				}
				f, err := s.Edit.AddLine(ctx, coords, edit.LineOptions{
					Title:       args[0],
					Description: description,
					Color:       color,
					Width:       width,
					FolderID:    folderID,
				})
				return c.printCreated(f, err)
			})
		},
	}
	line.Flags().Float64Var(&width, "width", 0, "stroke width")
	cmd.AddCommand(line)

	var fill string
	polygon := &cobra.Command{
		Use:   "polygon <title> <lon,lat> <lon,lat> <lon,lat>...",
		Short: "Create a polygon",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ring, err := parseCoords(args[1:], 3)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				folderID, err := c.resolveFolder(ctx, s, folder)
				if err != nil {
					return err
				}
				f, err := s.Edit.AddPolygon(ctx, ring, edit.PolygonOptions{
					Title:       args[0],
					Description: description,
					Stroke:      color,
					Fill:        fill,
					FolderID:    folderID,
				})
				return c.printCreated(f, err)
			})
		},
	}
	polygon.Flags().StringVar(&fill, "fill", "", "fill color")
	cmd.AddCommand(polygon)

	var (
		area     bool
		resource string
		period   string
	)
	assignment := &cobra.Command{
		Use:   "assignment <letter> <number> <lon,lat>...",
		Short: "Create a line assignment, or an area assignment with --area",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			minPoints := 2
			if area {
				minPoints = 3
			}
			coords, err := parseCoords(args[2:], minPoints)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				folderID, err := c.resolveFolder(ctx, s, folder)
				if err != nil {
					return err
				}
				opts := edit.AssignmentOptions{
					Letter:              args[0],
					Number:              args[1],
					Description:         description,
					ResourceType:        resource,
					OperationalPeriodID: period,
					FolderID:            folderID,
				}
				var f *models.Feature
				if area {
					f, err = s.Edit.AddAreaAssignment(ctx, coords, opts)
				} else {
					f, err = s.Edit.AddLineAssignment(ctx, coords, opts)
				}
				return c.printCreated(f, err)
			})
		},
	}
	assignment.Flags().BoolVar(&area, "area", false, "create an area assignment (polygon)")
	assignment.Flags().StringVar(&resource, "resource", "", "resource type, default GROUND")
	assignment.Flags().StringVar(&period, "period", "", "operational period id")
	cmd.AddCommand(assignment)

	return cmd
}

// resolveFolder возвращает id папки по id или заголовку
func (c *Cli) resolveFolder(ctx context.Context, s *session.Session, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	f, err := s.Query.Resolve(ctx, ref, models.ClassFolder)
	if err != nil {
		return "", fmt.Errorf("folder %q: %w", ref, err)
	}
	return f.ID, nil
}

func (c *Cli) printCreated(f *models.Feature, err error) error {
	if err != nil {
		return err
	}
	c.io.Printf("CREATED %s %s %s\n", f.ID, f.Class, f.Title())
	return nil
}
