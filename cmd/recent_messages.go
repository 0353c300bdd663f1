package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/calhelper/internal/gmail"
)

func newRecentMessagesCmd(opts *options) *cobra.Command {
	var (
		fromEmails []string
		limit      int64
	)

	cmd := &cobra.Command{
		Use:   "recent-messages",
		Short: "List recent messages exchanged with the given addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { err = s.end(ctx, err) }()

			client, err := s.gmailClient(ctx)
			if err != nil {
				return err
			}

			messages, err := client.ListMessages(ctx, gmail.MessageQuery{AnyEmail: fromEmails, MaxResults: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range messages {
				fmt.Fprintf(out, "Message: %s %s\n", m.Date.In(s.loc).Format("2006-01-02 15:04"), m.Subject)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fromEmails, "from-emails", nil, "Email address the messages involve (repeatable)")
	cmd.Flags().Int64Var(&limit, "limit", gmail.DefaultMaxResults, "Maximum number of messages to list")
	_ = cmd.MarkFlagRequired("from-emails")

	return cmd
}
