package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/calhelper/internal/flight"
)

func newScheduleFlightCmd(opts *options) *cobra.Command {
	var (
		flags         extractFlags
		readFromCache bool
		cacheFile     string
	)

	cmd := &cobra.Command{
		Use:   "schedule-flight",
		Short: "Create a calendar event for every flight in a confirmation email",
		Long: `Extract the flights from a confirmation email and create one event per
flight, titled "Flight <number> <from>-><to>".

The extracted details are written to the cache file so a later run can use
--read-from-cache instead of calling the LLM again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { err = s.end(ctx, err) }()

			if cacheFile == "" {
				cacheFile = s.cfg.FlightCacheFile
			}
			cache := flight.NewCache(cacheFile)
			out := cmd.OutOrStdout()

			var itinerary flight.Itinerary
			if readFromCache {
				if itinerary, err = cache.Read(); err != nil {
					return err
				}
			} else {
				email, ok, err := s.loadEmail(ctx, out, &flags)
				if err != nil || !ok {
					return err
				}
				itinerary, err = s.extract(ctx, &flags, email)
				if errors.Is(err, flight.ErrNoFlightDetails) {
					fmt.Fprintln(out, "No flight details found")
					return nil
				}
				if err != nil {
					return err
				}
			}

			if err := cache.Write(itinerary); err != nil {
				return err
			}

			client, err := s.calendarClient(ctx)
			if err != nil {
				return err
			}

			for _, f := range itinerary.Flights {
				fmt.Fprintf(out, "processing flight %s departing %s from %s\n", f.FlightNumber, f.DepartureDatetime, f.DepartureCity)

				input, err := f.EventInput(s.loc)
				if err != nil {
					return err
				}
				input.TimeZone = s.cfg.Timezone

				event, err := s.createEvent(ctx, client, input, true)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Event created with ID: %s\n", event.ID)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("email", "message-id")
	cmd.Flags().BoolVar(&readFromCache, "read-from-cache", false, "Read flight details from the cache file instead of calling the LLM")
	cmd.Flags().StringVar(&cacheFile, "cache-file", "", "Flight details cache file (default from config: flight_details.json)")

	return cmd
}
