package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iudanet/topokeeper/internal/client/geoedit"
	"github.com/iudanet/topokeeper/internal/models"
	"github.com/iudanet/topokeeper/internal/validation"
)

// parseCoord разбирает "lon,lat"
func parseCoord(s string) (models.Coord, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid coordinate %q, expected lon,lat", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("coordinate %q is out of range", s)
	}
	return models.Coord{lon, lat}, nil
}

func parseCoords(args []string, minPoints int) ([]models.Coord, error) {
	if len(args) < minPoints {
		return nil, fmt.Errorf("at least %d points are required, got %d", minPoints, len(args))
	}
	coords := make([]models.Coord, 0, len(args))
	for _, a := range args {
		c, err := parseCoord(a)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

func parseClass(s string) (models.Class, error) {
	if s == "" {
		return "", nil
	}
	if err := validation.ValidateClass(s); err != nil {
		return "", err
	}
	return models.Class(s), nil
}

func (c *Cli) printResult(op string, res *geoedit.Result) {
	switch res.Outcome {
	case geoedit.OutcomeApplied:
	case geoedit.OutcomeNoIntersection:
		c.io.Printf("%s: nothing to do (%s)\n", op, res.Reason)
		return
	default:
		c.io.Printf("%s: not supported: %s\n", op, res.Reason)
		return
	}

	if res.Edited != nil {
		c.io.Printf("EDITED  %s %s\n", res.Edited.ID, res.Edited.Title())
	}
	for _, f := range res.Created {
		c.io.Printf("CREATED %s %s\n", f.ID, f.Title())
	}
	if res.Deleted != nil {
		c.io.Printf("DELETED %s %s\n", res.Deleted.ID, res.Deleted.Class)
	}
}
