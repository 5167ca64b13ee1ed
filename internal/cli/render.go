package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"diagramkit/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (stdout when empty)
	format   string // output format: "d2", "dot", or "svg"
	detailed bool   // include technology/description detail in preview nodes
	noCache  bool   // bypass the artifact cache
}

// renderCommand creates the render command for local preview rendering.
//
// Default settings:
//   - format: svg (rendered in-process via Graphviz)
//   - caching: enabled, keyed by content hash
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an architecture block to d2, dot, or svg",
		Long: `Render reads a single architecture-notation block from a file or stdin and
produces a preview. The d2 format is the canonical translation; dot and svg
are local Graphviz previews and approximate the translated diagram.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRender(cmd, path, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: d2, dot, or svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include technology and description in preview nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	source, err := readInput(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var spinner *Spinner
	if opts.format == pipeline.FormatSVG && opts.output != "" {
		spinner = newSpinnerWithContext(cmd.Context(), "Rendering preview...")
		spinner.Start()
	}

	data, info, err := c.newRunner(opts.noCache).Preview(cmd.Context(), source, opts.format, pipeline.Options{
		Detailed: opts.detailed,
		Logger:   loggerFromContext(cmd.Context()),
	})
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Preview rendering failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	if err := writeOutput(opts.output, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if opts.output != "" {
		status := iconFresh
		if info.PreviewHit {
			status = iconCached
		}
		printSuccess("Rendered %s (%s)", opts.format, status)
		printFile(opts.output)
	}
	return nil
}
