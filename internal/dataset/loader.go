package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Paths locates the three input files.
type Paths struct {
	GeoJSON string `yaml:"geojson" json:"geojson"`
	States  string `yaml:"states" json:"states"`
	Daily   string `yaml:"daily" json:"daily"`
}

// All returns the paths in a fixed order.
func (p Paths) All() []string {
	return []string{p.GeoJSON, p.States, p.Daily}
}

// Option customizes a load.
type Option func(*loadOptions)

type loadOptions struct {
	nameProperty string
	codeProperty string
}

// WithProperties overrides the GeoJSON property keys holding the display
// name and region code.
func WithProperties(name, code string) Option {
	return func(o *loadOptions) {
		if name != "" {
			o.nameProperty = name
		}
		if code != "" {
			o.codeProperty = code
		}
	}
}

// Load reads and joins the three input files. Any failure aborts the whole
// load; a partially loaded dataset is never returned.
func Load(ctx context.Context, paths Paths, opts ...Option) (*Dataset, error) {
	o := loadOptions{nameProperty: DefaultNameProperty, codeProperty: DefaultCodeProperty}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		boundaries []Boundary
		regions    []Region
		extra      []string
		daily      []DailyRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := readFile(ctx, paths.GeoJSON)
		if err != nil {
			return err
		}
		boundaries, err = parseBoundaries(data, o.nameProperty, o.codeProperty)
		if err != nil {
			return fmt.Errorf("%s: %w", paths.GeoJSON, err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := readFile(ctx, paths.States)
		if err != nil {
			return err
		}
		regions, extra, err = parseStates(data)
		if err != nil {
			return fmt.Errorf("%s: %w", paths.States, err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := readFile(ctx, paths.Daily)
		if err != nil {
			return err
		}
		daily, err = parseDaily(data)
		if err != nil {
			return fmt.Errorf("%s: %w", paths.Daily, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	codes, err := lookupFromBoundaries(boundaries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.GeoJSON, err)
	}
	joined, err := join(regions, codes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.States, err)
	}
	return build(joined, daily, boundaries, extra, codes), nil
}

// join attaches region codes. An unresolved name fails the join.
func join(regions []Region, codes map[string]string) ([]Region, error) {
	out := make([]Region, len(regions))
	for i, r := range regions {
		code, ok := codes[r.Name]
		if !ok {
			return nil, &LookupError{Name: r.Name, Row: i + 2}
		}
		r.Code = code
		out[i] = r
	}
	return out, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("dataset path not configured")
	}
	// #nosec G304 - paths come from validated configuration
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
