package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/portfolio-client/pkg/loader"
	"github.com/nikogura/portfolio-client/pkg/render"
)

//nolint:gochecknoglobals // Cobra boilerplate
var showMarkdownFile string

//nolint:gochecknoglobals // Cobra boilerplate
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Load and display the portfolio",
	Long: `Load every portfolio section from the backend in parallel and print the result.

If any section fails to load, the error is shown and nothing else is printed.
Run the command again to retry.

Example:
  portfolio show
  portfolio show --markdown ./portfolio.md`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showMarkdownFile, "markdown", "", "Also write the portfolio as markdown to this file")
}

func runShow(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var rt session
	rt, err = newSession()
	if err != nil {
		return err
	}
	defer rt.close()

	l := loader.New(rt.service, rt.tracker, rt.logger)

	spin := newLoadingSpinner(os.Stderr, render.LoadingTitle, getVerbose())
	spin.start()
	_, err = l.Load(ctx)
	spin.stopSpinner()

	defer l.Wait()

	state := l.State()
	fmt.Print(render.Text(state))

	if err != nil || state.Status != loader.StatusReady {
		err = errors.Wrap(errReported, state.Err)
		return err
	}

	if showMarkdownFile != "" {
		err = render.WriteMarkdown(render.Markdown(*state.Data), showMarkdownFile)
		if err != nil {
			return err
		}
		if getVerbose() {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", showMarkdownFile)
		}
	}

	return err
}
