package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/calhelper/internal/google"
)

func newAuthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account",
		Long: `Authorize calhelper to use a Google account's calendar and mail.

Open the printed URL, grant access, then paste the code or the whole URL
the browser was redirected to. The token is stored for --account and
refreshed automatically afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { err = s.end(ctx, err) }()

			conf, provider, err := s.googleAuth()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Visit this URL to authorize account %q:\n\n%s\n\n", s.cfg.Account, google.AuthURL(conf, "calhelper-"+s.cfg.Account))
			fmt.Fprint(out, "Paste the authorization code or redirect URL: ")

			line, readErr := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if readErr != nil && line == "" {
				return fmt.Errorf("failed to read authorization code: %w", readErr)
			}

			if err := google.Exchange(ctx, conf, provider.Store(), s.cfg.Account, line); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nToken for account %q saved.\n", s.cfg.Account)
			return nil
		},
	}
}
