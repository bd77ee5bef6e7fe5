package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/apperrors"
	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

const pagesPath = "/v1/pages"

// Options configures the database the client writes into.
type Options struct {
	BaseURL       string
	APIKey        string
	DatabaseID    string
	Version       string
	TitleProperty string
	DateProperty  string
	TimeZone      string // IANA name sent next to the offset-less timestamps
	Timeout       time.Duration
}

// Client creates schedule pages in a Notion database.
type Client struct {
	opts       Options
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     logger,
	}
}

type createPageRequest struct {
	Parent     parent                 `json:"parent"`
	Properties map[string]interface{} `json:"properties"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type titleProperty struct {
	Title []richText `json:"title"`
}

type richText struct {
	Text textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

type dateProperty struct {
	Date dateValue `json:"date"`
}

type dateValue struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	TimeZone string `json:"time_zone"`
}

type pageResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) authorization() string {
	if strings.HasPrefix(c.opts.APIKey, "Bearer ") {
		return c.opts.APIKey
	}
	return "Bearer " + c.opts.APIKey
}

// CreatePage adds one class to the database and returns the new page id.
func (c *Client) CreatePage(ctx context.Context, title string, interval model.ParsedInterval) (string, error) {
	payload := createPageRequest{
		Parent: parent{DatabaseID: c.opts.DatabaseID},
		Properties: map[string]interface{}{
			c.opts.TitleProperty: titleProperty{
				Title: []richText{{Text: textContent{Content: title}}},
			},
			c.opts.DateProperty: dateProperty{
				Date: dateValue{
					Start:    interval.StartISO(),
					End:      interval.EndISO(),
					TimeZone: c.opts.TimeZone,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal page: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+pagesPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build notion request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.opts.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.ServiceUnavailable("Gagal mengirim data ke Notion", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.ServiceUnavailable("Gagal membaca respons Notion", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		c.logger.Warn("Notion rejected page",
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
			zap.String("title", title),
		)
		return "", apperrors.Upstream(fmt.Sprintf("Error dari Notion API: %s", msg))
	}

	var page pageResponse
	if err := json.Unmarshal(raw, &page); err != nil {
		return "", apperrors.Wrap(apperrors.CodeUpstream, "Respons Notion tidak valid", err)
	}

	c.logger.Debug("Notion page created",
		zap.String("page_id", page.ID),
		zap.String("title", title),
	)

	return page.ID, nil
}
