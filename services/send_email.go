package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// CommentNotifier is told about every committed comment
type CommentNotifier interface {
	NotifyComment(ctx context.Context, kind models.ContentKind, contentID uint, comment models.CommentView) error
}

type noopNotifier struct{}

func (noopNotifier) NotifyComment(context.Context, models.ContentKind, uint, models.CommentView) error {
	return nil
}

// EmailNotifier mails the site owners through Resend when someone comments.
type EmailNotifier struct {
	apiKey     string
	from       string
	recipients []string
	siteURL    string
	endpoint   string
	client     *http.Client
	logger     zerolog.Logger
}

// NewCommentNotifier returns an EmailNotifier when RESEND_API_KEY, RESEND_FROM_EMAIL and
// NOTIFY_EMAILS are all set, and a notifier that does nothing otherwise.
func NewCommentNotifier(cfg map[string]string) CommentNotifier {
	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	from := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	recipients := config.GetList(cfg, "NOTIFY_EMAILS")
	if apiKey == "" || from == "" || len(recipients) == 0 {
		log.Info().Msg("comment notifications disabled")
		return noopNotifier{}
	}
	return NewEmailNotifier(apiKey, from, recipients, config.GetString(cfg, "SITE_BASE_URL", ""), resendEndpoint)
}

func NewEmailNotifier(apiKey, from string, recipients []string, siteURL, endpoint string) *EmailNotifier {
	return &EmailNotifier{
		apiKey:     apiKey,
		from:       from,
		recipients: recipients,
		siteURL:    siteURL,
		endpoint:   endpoint,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     log.With().Str("serviceName", "emailNotifier").Logger(),
	}
}

func (n *EmailNotifier) NotifyComment(ctx context.Context, kind models.ContentKind, contentID uint, comment models.CommentView) error {
	subject := fmt.Sprintf("New comment on %s #%d from %s", kind.Name, contentID, comment.User.Username)

	var body bytes.Buffer
	fmt.Fprintf(&body, "<p><strong>%s</strong> wrote:</p>", html.EscapeString(comment.User.Username))
	fmt.Fprintf(&body, "<blockquote>%s</blockquote>", html.EscapeString(comment.Content))
	if link := BuildContentURL(n.siteURL, kind, contentID); link != "" {
		fmt.Fprintf(&body, `<p><a href="%s">%s</a></p>`, link, link)
	}

	return n.SendEmail(ctx, subject, body.String(), n.recipients)
}

// SendEmail sends an email using the Resend API
// Parameters:
//   - subject: The email subject line
//   - body: The email body (HTML)
//   - recipients: A list of recipient email addresses
func (n *EmailNotifier) SendEmail(ctx context.Context, subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    n.from,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		n.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}
