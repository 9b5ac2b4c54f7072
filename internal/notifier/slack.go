package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/metarh/vagas/internal/model"
	"github.com/metarh/vagas/internal/normalize"
)

var _ model.Notifier = (*SlackNotifier)(nil)

const (
	defaultMessageGap = 500 * time.Millisecond
	summaryLimit      = 280
)

// SlackNotifier posts new postings to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	gap        time.Duration // pause between consecutive messages
}

func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		gap:        defaultMessageGap,
	}
}

// Notify sends each job as a separate Block Kit message.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(ctx context.Context, jobs []model.NormalizedJob) error {
	if len(jobs) == 0 {
		return nil
	}

	failures := 0
	for i, j := range jobs {
		if i > 0 {
			if err := sleep(ctx, s.gap); err != nil {
				return err
			}
		}
		if err := s.sendMessage(ctx, j); err != nil {
			s.logger.Error("slack notification failed", "id", j.ID, "title", j.Title, "error", err)
			failures++
		}
	}

	if failures == len(jobs) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", len(jobs)-failures, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(ctx context.Context, j model.NormalizedJob) error {
	body, err := json.Marshal(buildPayload(j))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(ctx, body)
	if err != nil {
		return err
	}

	// Slack asks webhook callers to back off once on 429.
	if status == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		if err := sleep(ctx, time.Duration(secs)*time.Second); err != nil {
			return err
		}
		if status, _, err = s.post(ctx, body); err != nil {
			return fmt.Errorf("retry: %w", err)
		}
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Debug("slack message sent", "id", j.ID, "title", j.Title)
	return nil
}

func (s *SlackNotifier) post(ctx context.Context, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Retry-After"), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

func buildPayload(j model.NormalizedJob) slackPayload {
	location := j.City
	if j.State != "" {
		location += " - " + j.State
	}
	if j.Remote {
		location += " (remoto)"
	}

	published := "Sem data"
	if j.PublishedAt != "" {
		if t := normalize.ParsePublished(j.PublishedAt); t.Unix() > 0 {
			published = t.Format("02/01/2006")
		}
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "Nova vaga: " + j.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Local:*\n" + location},
				{Type: "mrkdwn", Text: "*Área:*\n" + j.Department},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Contrato:*\n" + j.ContractType},
				{Type: "mrkdwn", Text: "*Publicada:*\n" + published},
			},
		},
	}

	if j.Summary != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "plain_text", Text: normalize.Truncate(j.Summary, summaryLimit)},
		})
	}

	if j.URLApply != "" {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Candidatar-se"},
					URL:   j.URLApply,
					Style: "primary",
				},
			},
		})
	}

	blocks = append(blocks, slackBlock{Type: "divider"})
	return slackPayload{Blocks: blocks}
}
