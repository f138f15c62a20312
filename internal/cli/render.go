package cli

import (
	"github.com/spf13/cobra"
)

// runRender executes the full pipeline for the root command and reports the
// written file.
func (c *CLI) runRender(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts := c.flags.options()
	opts.Logger = logger

	runner, err := c.newRunner(c.flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered " + result.OutputPath)

	printSuccess("Rendered %s treemap", result.Format)
	printStats(result.Stats.Categories, result.Stats.Subcategories, result.Stats.Records,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printFile(result.OutputPath)
	return nil
}
