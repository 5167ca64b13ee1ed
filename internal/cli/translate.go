package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"diagramkit/pkg/markup"
)

// translateOpts holds the command-line flags for the translate command.
type translateOpts struct {
	output string // output file path (stdout when empty)
	decode bool   // decode markup entities before parsing
}

// translateCommand creates the translate command for converting one
// architecture block to D2.
func (c *CLI) translateCommand() *cobra.Command {
	var opts translateOpts

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate an architecture block to D2",
		Long: `Translate reads a single architecture-notation block from a file or stdin
and emits the equivalent D2 declarative diagram text. Statements that cannot
be parsed are skipped with a warning; translation always produces output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runTranslate(cmd, path, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.decode, "decode", false, "decode HTML entities in the input first")

	return cmd
}

func (c *CLI) runTranslate(cmd *cobra.Command, path string, opts *translateOpts) error {
	logger := loggerFromContext(cmd.Context())

	source, err := readInput(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if opts.decode {
		source = markup.Decode(source)
	}

	prog := newProgress(logger)
	desc, warnings, err := c.newRunner(true).Translate(cmd.Context(), source)
	if err != nil {
		return err
	}
	prog.done("Translated block")

	for _, w := range warnings {
		printWarning("%s", w)
	}

	if err := writeOutput(opts.output, []byte(desc+"\n")); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if opts.output != "" {
		printSuccess("Translated to D2")
		printFile(opts.output)
	}
	return nil
}
