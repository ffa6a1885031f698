package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmark/pkg/cache"
	"github.com/matzehuels/flowmark/pkg/codec"
	"github.com/matzehuels/flowmark/pkg/flow"
	"github.com/matzehuels/flowmark/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // output file path (or base path for multiple formats)
	formats string  // comma-separated output formats
	labels  bool    // draw link labels
	scale   float64 // png scale factor
	noCache bool    // bypass the render cache
}

// newRenderCmd creates the render command for generating diagrams.
// It supports SVG, PDF, PNG, and DOT output, with artifacts cached by
// source hash so repeated renders of unchanged files are instant.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a flowchart to SVG, PNG, PDF, or DOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			cfg := configFromContext(cmd.Context())
			if opts.formats == "" {
				opts.formats = cfg.Render.Format
			}
			if opts.scale == 0 {
				opts.scale = cfg.Render.Scale
			}

			formats := strings.Split(opts.formats, ",")
			for _, f := range formats {
				if err := validateFormat(f); err != nil {
					return err
				}
			}
			return runRender(cmd.Context(), path, formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.labels, "labels", true, "draw link labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "png scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "pdf": true, "dot": true}

// validateFormat checks that the requested format is supported.
func validateFormat(f string) error {
	if !validFormats[f] {
		return fmt.Errorf("invalid format: %s (must be 'svg', 'png', 'pdf', or 'dot')", f)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has
// a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == "-" {
			return "flowchart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the graph from input and renders it to the requested
// formats.
func runRender(ctx context.Context, input string, formats []string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, src, err := loadGraph(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded graph: %d nodes, %d links", g.NodeCount(), g.LinkCount())

	c := openCache(ctx, opts.noCache)
	defer c.Close()

	cached := true
	for _, format := range formats {
		path := opts.output
		if path == "" || len(formats) > 1 {
			path = basePath(opts.output, input) + "." + format
		}

		data, hit, err := renderCached(ctx, c, g, src, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		cached = cached && hit

		if err := writeOutput(path, data); err != nil {
			return err
		}
		if path != "" && path != "-" {
			printFile(path)
		}
	}

	prog.done(fmt.Sprintf("Rendered %d nodes", g.NodeCount()))
	printStats(g.NodeCount(), g.LinkCount(), cached)
	return nil
}

// openCache builds the render cache from configuration. Failures fall
// back to the null cache so rendering still works.
func openCache(ctx context.Context, noCache bool) cache.Cache {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache()
	}

	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr})
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "error", err)
			return cache.NewNullCache()
		}
		return c
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Warn("cache directory unavailable, caching disabled", "error", err)
		return cache.NewNullCache()
	}
	return c
}

// renderCached renders one format, consulting the cache first. The
// second return reports whether the artifact came from the cache.
func renderCached(ctx context.Context, c cache.Cache, g *flow.Graph, src, format string, opts *renderOpts) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)

	// Canonical text keys the cache so formatting differences do not
	// cause spurious misses.
	canonical := codec.Encode(g, codec.Options{})
	key := cache.RenderKey([]byte(canonical), format, renderKeyOpts(format, opts))

	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		logger.Debugf("Cache hit for %s", format)
		return data, true, nil
	}

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", format))
	spin.Start()
	data, err := renderFormat(g, format, opts)
	spin.Stop()
	if err != nil {
		return nil, false, err
	}

	if err := c.Set(ctx, key, data, 0); err != nil {
		logger.Debug("cache write failed", "error", err)
	}
	return data, false, nil
}

// renderKeyOpts returns the options that affect the rendered bytes for
// cache keying.
func renderKeyOpts(format string, opts *renderOpts) any {
	keyed := struct {
		Labels bool    `json:"labels"`
		Scale  float64 `json:"scale,omitempty"`
	}{Labels: opts.labels}
	if format == "png" {
		keyed.Scale = opts.scale
	}
	return keyed
}

func renderFormat(g *flow.Graph, format string, opts *renderOpts) ([]byte, error) {
	dot := render.ToDOT(g, render.Options{Labels: opts.labels})
	if format == "dot" {
		return []byte(dot), nil
	}

	svg, err := render.RenderSVG(dot)
	if err != nil {
		return nil, err
	}

	switch format {
	case "svg":
		return svg, nil
	case "png":
		return render.ToPNG(svg, opts.scale)
	case "pdf":
		return render.ToPDF(svg)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
