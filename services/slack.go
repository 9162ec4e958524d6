package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/models"
)

type slackMessage struct {
	Text        string `json:"text"`
	UnfurlLinks bool   `json:"unfurl_links"`
	UnfurlMedia bool   `json:"unfurl_media"`
}

// SlackNotifier posts new projects to a Slack incoming webhook
type SlackNotifier struct {
	webhookURL string
	baseURL    string
	client     *retryablehttp.Client
}

type SlackOption func(*SlackNotifier)

// WithSlackRetries overrides how often and how patiently a failed post is retried
func WithSlackRetries(max int, waitMin, waitMax time.Duration) SlackOption {
	return func(s *SlackNotifier) {
		s.client.RetryMax = max
		s.client.RetryWaitMin = waitMin
		s.client.RetryWaitMax = waitMax
	}
}

func NewSlackNotifier(webhookURL, baseURL string, opts ...SlackOption) *SlackNotifier {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = leveledLogger{log.With().Str("component", "slackNotifier").Logger()}

	s := &SlackNotifier{webhookURL: webhookURL, baseURL: baseURL, client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SlackNotifier) NotifyNewProject(ctx context.Context, project models.Project) error {
	body, err := json.Marshal(slackMessage{Text: FormatSlackMessage(project, s.baseURL)})
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, body)
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errs.NewUpstreamError("slack", 0, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return errs.NewUpstreamError("slack", resp.StatusCode, nil)
	}
	return nil
}

// FormatSlackMessage renders the announcement text, one labelled line per field
func FormatSlackMessage(project models.Project, baseURL string) string {
	title := project.Title
	if strings.TrimSpace(title) == "" {
		title = "(Untitled)"
	}

	links := make([]string, 0, len(project.Links))
	for _, l := range project.Links {
		links = append(links, fmt.Sprintf("<%s|%s>", l.URL, l.Type))
	}

	lines := []string{
		"*New AI project submitted!*",
		"*Title:* " + title,
		"*Team:* " + orDash(project.Team),
		"*Owner:* " + orDash(project.Owner),
		"*Tools:* " + orDash(strings.Join(project.ToolNames(), ", ")),
		"*Links:* " + orDash(strings.Join(links, " • ")),
	}
	if project.Description != "" {
		lines = append(lines, "*Summary:* "+project.Description)
	}
	if u := BuildProjectURL(baseURL, project.ID); u != "" {
		lines = append(lines, fmt.Sprintf("<%s|View in Catalog>", u))
	}
	return strings.Join(lines, "\n")
}

// leveledLogger adapts zerolog to retryablehttp's LeveledLogger
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
