package cli

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"diagramkit/pkg/pipeline"
	"diagramkit/pkg/scan"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	container   string // container form: "markdown" or "html"
	jsonOut     bool   // emit the full result as JSON
	interactive bool   // pick a diagram block interactively
	output      string // output file for the selected block
}

// scanCommand creates the scan command for detecting diagram blocks.
func (c *CLI) scanCommand() *cobra.Command {
	opts := scanOpts{container: string(pipeline.DefaultContainer)}

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Detect and classify diagram blocks in content",
		Long: `Scan reads generated content from a file or stdin, extracts code blocks,
classifies each into a diagram dialect, and translates architecture blocks
to D2. Unrecognized blocks pass through untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runScan(cmd, path, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.container, "container", opts.container, "container form: markdown or html")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the full pipeline result as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "interactively select a diagram block")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the selected block's output to a file")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, path string, opts *scanOpts) error {
	logger := loggerFromContext(cmd.Context())

	content, err := readInput(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	prog := newProgress(logger)
	res, err := c.newRunner(true).Execute(cmd.Context(), content, pipeline.Options{
		Container: scan.Container(opts.container),
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d blocks", res.Stats.BlockCount))

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Segments)
	}

	diagrams := diagramSegments(res)

	printInfo("Scan results")
	for _, seg := range res.Segments {
		if seg.Block == nil {
			continue
		}
		printBlock(seg.Block.Position, seg.Classification.Dialect.Tag(), string(seg.Classification.Method))
		for _, w := range seg.Warnings {
			printWarning("%s", w)
		}
	}
	printStats(res.Stats.BlockCount, res.Stats.DiagramCount, res.Stats.TranslatedCount, false)

	if !opts.interactive || len(diagrams) == 0 {
		return nil
	}

	seg, err := pickSegment(diagrams)
	if err != nil || seg == nil {
		return err
	}

	out := seg.Translated
	if out == "" {
		out = seg.Source
	}
	printNewline()
	if err := writeOutput(opts.output, []byte(out+"\n")); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if opts.output != "" {
		printSuccess("Wrote block #%d", seg.Block.Position)
		printFile(opts.output)
	}
	return nil
}

// diagramSegments filters the result down to classified diagram blocks.
func diagramSegments(res *pipeline.Result) []pipeline.Segment {
	var out []pipeline.Segment
	for _, seg := range res.Segments {
		if seg.IsDiagram() {
			out = append(out, seg)
		}
	}
	return out
}

// pickSegment runs the interactive block picker. A nil segment with nil error
// means the user quit without selecting.
func pickSegment(segments []pipeline.Segment) (*pipeline.Segment, error) {
	if len(segments) == 1 {
		return &segments[0], nil
	}

	model := NewBlockListModel(segments)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("run block picker: %w", err)
	}
	m, ok := final.(BlockListModel)
	if !ok || m.Selected == nil {
		return nil, nil
	}
	return m.Selected, nil
}
