package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/calhelper/internal/calendar"
	"github.com/teemow/calhelper/internal/logging"
	"github.com/teemow/calhelper/internal/scheduler"
	"github.com/teemow/calhelper/internal/when"
)

func newScheduleDuringCmd(opts *options) *cobra.Command {
	var (
		title       string
		description string
		start       string
		end         string
		emails      []string
		duration    int
		notify      bool
	)

	cmd := &cobra.Command{
		Use:   "schedule-during",
		Short: "Schedule a meeting with each guest in the first slot both are free",
		Long: `For each --email guest, find the earliest slot between --start and --end
where both the guest and the authorized account are free, and schedule a
meeting of --duration minutes there.

Guests whose availability cannot be read are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if duration <= 0 {
				return fmt.Errorf("--duration must be positive, got %d", duration)
			}

			ctx, s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { err = s.end(ctx, err) }()

			window := scheduler.Window{}
			if window.Start, err = when.Parse(start, s.loc); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			if window.End, err = when.Parse(end, s.loc); err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			if !window.End.After(window.Start) {
				return fmt.Errorf("--end must be after --start")
			}

			client, err := s.calendarClient(ctx)
			if err != nil {
				return err
			}

			me, err := client.PrimaryEmail(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Will check availability for the following emails: %s\n", strings.Join(emails, ", "))

			length := time.Duration(duration) * time.Minute
			for _, guest := range emails {
				result, err := client.FindMutualSlot(ctx, window, length, me, guest)
				if err != nil {
					return err
				}

				if len(result.Unavailable) > 0 {
					for _, info := range result.Unavailable {
						fmt.Fprintf(out, "Error fetching availability for %s: %s\n", info.Email, info.ErrorMessage())
					}
					continue
				}

				if !result.Found {
					fmt.Fprintf(out, "Couldn't find mutual availability with %s\n", guest)
					continue
				}

				s.logger.Debug("found mutual slot", logging.UserHash(guest), logging.Domain(guest), "start", result.Start)

				_, err = s.createEvent(ctx, client, calendar.EventInput{
					Summary:     title,
					Description: description,
					Start:       result.Start,
					End:         result.End,
					TimeZone:    s.cfg.Timezone,
					Attendees: []calendar.Attendee{
						{Email: guest},
						{Email: me, ResponseStatus: calendar.ResponseAccepted},
					},
				}, notify)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Scheduled %dm event with %s starting %s\n", duration, guest, when.Friendly(result.Start, s.loc))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title of the event")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the event")
	cmd.Flags().StringVarP(&start, "start", "s", "", "Start of the availability search")
	cmd.Flags().StringVar(&end, "end", "", "End of the availability search")
	cmd.Flags().StringArrayVarP(&emails, "email", "e", nil, "Email address of a guest (repeatable)")
	cmd.Flags().IntVar(&duration, "duration", 30, "How long the meeting will be in minutes")
	cmd.Flags().BoolVar(&notify, "notify", true, "Notify participants")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
