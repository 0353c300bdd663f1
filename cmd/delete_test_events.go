package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/calhelper/internal/calendar"
)

func newDeleteTestEventsCmd(opts *options) *cobra.Command {
	var (
		title  string
		yes    bool
		notify bool
	)

	cmd := &cobra.Command{
		Use:   "delete-test-events",
		Short: "Delete events titled 'test event' from the calendar",
		Long: `List the events on the calendar whose title is exactly the given title
(case-insensitive) and delete them after confirmation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { err = s.end(ctx, err) }()

			client, err := s.calendarClient(ctx)
			if err != nil {
				return err
			}

			events, err := client.ListEvents(ctx, s.cfg.Calendar, calendar.EventQuery{Title: title})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d events\n", len(events))
			if len(events) == 0 {
				return nil
			}

			if !yes && !confirm(cmd.InOrStdin(), out, "Do you want to delete these events?") {
				return nil
			}

			for _, event := range events {
				fmt.Fprintf(out, "* Deleting event with ID %s\n", event.ID)
				if err := s.deleteEvent(ctx, client, event.ID, notify); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "test event", "Title of the events to delete")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&notify, "notify", true, "Notify participants about the cancellation")

	return cmd
}

// confirm asks a yes/no question and reports whether the answer was "y".
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/n): ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
