package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/calhelper/internal/config"
	"github.com/teemow/calhelper/internal/flight"
)

// extractFlags are the flags shared by the commands that run an extraction.
type extractFlags struct {
	emailPath string
	messageID string
	provider  string
	anthropic bool
}

func (f *extractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.emailPath, "email", "e", "", "Path to the input .eml email file")
	cmd.Flags().StringVar(&f.messageID, "message-id", "", "Gmail message ID to read instead of an .eml file")
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider: openai, anthropic or gemini (default from config)")
	cmd.Flags().BoolVarP(&f.anthropic, "anthropic", "a", false, "Use Anthropic instead of the default provider")
}

func (f *extractFlags) providerName() string {
	if f.anthropic {
		return config.ProviderAnthropic
	}
	return f.provider
}

// readEmail loads the .eml file. A missing file is reported on out and
// yields ok == false without an error.
func readEmail(out io.Writer, path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "File not found: %s\n", path)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read email: %w", err)
	}
	return string(data), true, nil
}

// loadEmail returns the raw message named by the flags, from Gmail when
// --message-id is set and from the .eml file otherwise.
func (s *session) loadEmail(ctx context.Context, out io.Writer, f *extractFlags) (string, bool, error) {
	switch {
	case f.messageID != "":
		client, err := s.gmailClient(ctx)
		if err != nil {
			return "", false, err
		}
		raw, err := client.RawMessage(ctx, f.messageID)
		if err != nil {
			return "", false, err
		}
		return raw, true, nil
	case f.emailPath != "":
		return readEmail(out, f.emailPath)
	default:
		return "", false, fmt.Errorf("either --email or --message-id is required")
	}
}

// extract runs the provider's pipeline over the email.
func (s *session) extract(ctx context.Context, f *extractFlags, email string) (flight.Itinerary, error) {
	pipeline, release, err := s.flightPipeline(ctx, f.providerName())
	if err != nil {
		return flight.Itinerary{}, err
	}
	defer release()

	return pipeline.Extract(ctx, email)
}

func newExtractFlightCmd(opts *options) *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract-flight",
		Short: "Extract flight details from a confirmation email",
		Long: `Extract the flights, passengers and purchase summary from a flight
confirmation email (.eml) with an LLM and print them as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { err = s.end(ctx, err) }()

			out := cmd.OutOrStdout()
			email, ok, err := s.loadEmail(ctx, out, &flags)
			if err != nil || !ok {
				return err
			}

			itinerary, err := s.extract(ctx, &flags, email)
			if errors.Is(err, flight.ErrNoFlightDetails) {
				fmt.Fprintln(out, "No flight details found")
				return nil
			}
			if err != nil {
				return err
			}

			data, err := itinerary.MarshalIndent()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}

	flags.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("email", "message-id")

	return cmd
}
