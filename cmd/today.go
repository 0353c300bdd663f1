package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/calhelper/internal/calendar"
	"github.com/teemow/calhelper/internal/when"
)

func newTodayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's events",
		Args:  cobra.NoArgs,
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

			start, end := when.DayBounds(opts.clock(), s.loc)
			events, err := client.ListEvents(ctx, s.cfg.Calendar, calendar.EventQuery{
				TimeMin:         start,
				TimeMax:         end,
				ExpandRecurring: true,
			})
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Today's events:")
			for _, e := range events {
				fmt.Fprintf(out, "* %s at %s\n", e.Summary, when.Span(e.Start, e.End, s.loc))
			}
			return nil
		},
	}
}
