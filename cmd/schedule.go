package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/calhelper/internal/calendar"
	"github.com/teemow/calhelper/internal/when"
)

func newScheduleCmd(opts *options) *cobra.Command {
	var (
		title       string
		description string
		start       string
		end         string
		emails      []string
		notify      bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create an event on the calendar",
		Long: `Create an event between --start and --end, inviting every --email guest.
Dates are free-form, e.g. "2024-03-01 14:00", and are read in the configured
time zone unless they carry an offset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { err = s.end(ctx, err) }()

			startTime, err := when.Parse(start, s.loc)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endTime, err := when.Parse(end, s.loc)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			client, err := s.calendarClient(ctx)
			if err != nil {
				return err
			}

			input := calendar.EventInput{
				Summary:     title,
				Description: description,
				Start:       startTime,
				End:         endTime,
				TimeZone:    s.cfg.Timezone,
			}
			for _, email := range emails {
				input.Attendees = append(input.Attendees, calendar.Attendee{Email: email})
			}

			event, err := s.createEvent(ctx, client, input, notify)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Event created with ID: %s\n", event.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title of the event")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the event")
	cmd.Flags().StringVarP(&start, "start", "s", "", "Start of the event")
	cmd.Flags().StringVar(&end, "end", "", "End of the event")
	cmd.Flags().StringArrayVarP(&emails, "email", "e", nil, "Email address of a guest (repeatable)")
	cmd.Flags().BoolVar(&notify, "notify", true, "Notify participants")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
