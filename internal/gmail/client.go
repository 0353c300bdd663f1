package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/calhelper/internal/google"
	"github.com/teemow/calhelper/internal/instrumentation"
)

// Client wraps the Gmail Users service
type Client struct {
	svc     *gmail.UsersService
	account string // The account this client is associated with
	metrics *instrumentation.Metrics
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// SetMetrics enables API operation metrics for the client.
func (c *Client) SetMetrics(m *instrumentation.Metrics) {
	c.metrics = m
}

// NewClientForAccountWithProvider creates a Gmail client for account,
// authorized with the token the provider holds for it.
func NewClientForAccountWithProvider(ctx context.Context, account string, conf *oauth2.Config, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.HTTPClient(ctx, conf, provider, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}
	return NewClientWithOptions(ctx, account, option.WithHTTPClient(httpClient))
}

// NewClientWithOptions creates a Gmail client from raw API client options.
func NewClientWithOptions(ctx context.Context, account string, opts ...option.ClientOption) (*Client, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

func (c *Client) instrument(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	return google.Instrument(ctx, c.metrics, instrumentation.ServiceGmail, operation, c.account, call)
}

// ListMessages lists messages matching the query, newest first, making
// multiple API calls if necessary. Each message is then fetched with its
// Date, From and Subject headers.
func (c *Client) ListMessages(ctx context.Context, query MessageQuery) ([]MessageSummary, error) {
	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	q := buildQuery(query)

	var refs []*gmail.Message
	pageToken := ""
	for {
		remaining := maxResults - int64(len(refs))
		if remaining <= 0 {
			break
		}

		// Gmail API has a max page size, typically 100
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(q).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		var res *gmail.ListMessagesResponse
		err := c.instrument(ctx, instrumentation.OperationList, func(ctx context.Context) error {
			var err error
			res, err = req.Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		refs = append(refs, res.Messages...)

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(refs)) > maxResults {
		refs = refs[:maxResults]
	}

	summaries := make([]MessageSummary, 0, len(refs))
	for _, ref := range refs {
		summary, err := c.messageSummary(ctx, ref.Id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (c *Client) messageSummary(ctx context.Context, id string) (MessageSummary, error) {
	var msg *gmail.Message
	err := c.instrument(ctx, instrumentation.OperationGet, func(ctx context.Context) error {
		var err error
		msg, err = c.svc.Messages.Get("me", id).
			Format("metadata").
			MetadataHeaders("Date", "From", "Subject").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return MessageSummary{}, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	return toMessageSummary(msg), nil
}

func toMessageSummary(msg *gmail.Message) MessageSummary {
	summary := MessageSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		From:     HeaderValue(msg, "From"),
		Subject:  HeaderValue(msg, "Subject"),
		Snippet:  msg.Snippet,
	}
	// InternalDate is when Gmail received the message, in epoch millis.
	if msg.InternalDate > 0 {
		summary.Date = time.UnixMilli(msg.InternalDate)
	}
	return summary
}

// RawMessage returns the full RFC 822 text of a message.
func (c *Client) RawMessage(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("message ID is required")
	}

	var msg *gmail.Message
	err := c.instrument(ctx, instrumentation.OperationGet, func(ctx context.Context) error {
		var err error
		msg, err = c.svc.Messages.Get("me", id).Format("raw").Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to get message %s: %w", id, err)
	}

	data, err := decodeBase64URL(msg.Raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode message %s: %w", id, err)
	}
	return string(data), nil
}

// decodeBase64URL decodes Gmail's base64url data, which may or may not be
// padded.
func decodeBase64URL(s string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	return data, err
}

// HeaderValue extracts a header value from a Gmail message. Header names
// are matched case-insensitively.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, mph := range m.Payload.Headers {
		if strings.EqualFold(mph.Name, header) {
			return mph.Value
		}
	}
	return ""
}
