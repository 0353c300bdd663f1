package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/teemow/calhelper/internal/flight"
	"github.com/teemow/calhelper/internal/google"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the version command
func SetVersion(v string) {
	version = v
}

// options holds the persistent flags shared by every command, plus the
// overrides tests use to point commands at fake services.
type options struct {
	configPath      string
	account         string
	logLevel        string
	logFormat       string
	metricsTextfile string

	// googleOptions, when set, replace OAuth-authorized Google clients.
	googleOptions []option.ClientOption
	// oauthEndpoint, when set, replaces Google's OAuth endpoint.
	oauthEndpoint *oauth2.Endpoint
	// extractor, when set, replaces the configured LLM provider.
	extractor flight.Extractor
	// now replaces time.Now.
	now func() time.Time
}

func (o *options) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

// newRootCmd builds the calhelper command tree.
func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "calhelper",
		Short: "Automates calendar and email chores with Google Calendar, Gmail and LLMs",
		Long: `calhelper is a set of one-shot commands for calendar and email chores:
scheduling events, finding a free slot shared with a guest, removing test
events, and turning flight confirmation emails into calendar events.

Commands act as one authorized Google account, chosen with --account.
Authorize an account once with 'calhelper auth'.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "calhelper version %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the YAML config file (default: $XDG_CONFIG_HOME/calhelper/config.yaml)")
	flags.StringVarP(&opts.account, "account", "g", "default", "Google account to act as")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")
	flags.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(newDeleteTestEventsCmd(opts))
	rootCmd.AddCommand(newScheduleCmd(opts))
	rootCmd.AddCommand(newScheduleDuringCmd(opts))
	rootCmd.AddCommand(newExtractFlightCmd(opts))
	rootCmd.AddCommand(newScheduleFlightCmd(opts))
	rootCmd.AddCommand(newRecentMessagesCmd(opts))
	rootCmd.AddCommand(newTodayCmd(opts))
	rootCmd.AddCommand(newAuthCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := newRootCmd(&options{}).ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

// printError reports err, showing the status of Google API failures.
func printError(w io.Writer, err error) {
	if msg, ok := google.APIErrorMessage(err); ok {
		fmt.Fprintf(w, "Google API error: %s\n", msg)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
