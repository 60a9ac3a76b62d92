package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

//nolint:gochecknoglobals // Cobra boilerplate
var trackFields []string

//nolint:gochecknoglobals // Cobra boilerplate
var trackCmd = &cobra.Command{
	Use:   "track <page>",
	Short: "Record a page view or UI event",
	Long: `Record a page view. With one or more --event key=value fields the name is
recorded as a UI event (page "event_<name>") carrying those fields.

Tracking is best effort: a backend failure is reported but never fails the command.

Example:
  portfolio track home
  portfolio track contact_open --event section=hero --event source=nav`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().StringArrayVar(&trackFields, "event", nil, "Event field as key=value (repeatable)")
}

func runTrack(cmd *cobra.Command, args []string) (err error) {
	var extra map[string]interface{}
	extra, err = parseFields(trackFields)
	if err != nil {
		return err
	}

	var rt session
	rt, err = newSession()
	if err != nil {
		return err
	}
	defer rt.close()

	var result portfolio.TrackResult
	if len(extra) > 0 {
		result = rt.tracker.TrackEvent(context.Background(), args[0], extra)
	} else {
		result = rt.tracker.TrackPageView(context.Background(), args[0])
	}

	switch {
	case result.Recorded:
		fmt.Println("recorded")
	case result.Err != nil:
		fmt.Printf("not recorded: %s\n", result.Err)
	default:
		fmt.Println("not recorded")
	}

	return err
}

func parseFields(fields []string) (extra map[string]interface{}, err error) {
	extra = make(map[string]interface{}, len(fields))
	for _, field := range fields {
		key, value, found := strings.Cut(field, "=")
		if !found || key == "" {
			err = errors.Errorf("invalid event field %q: want key=value", field)
			return extra, err
		}
		extra[key] = value
	}
	return extra, err
}
