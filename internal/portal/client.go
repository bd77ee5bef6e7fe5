package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/apperrors"
	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

const (
	loginPath    = "/auth/masuk"
	schedulePath = "/stud/jadkul/kulnow"
	homePath     = "/stud"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Client logs into the student portal and reads the current class schedule.
// It keeps no state between calls; every FetchSchedule uses a fresh session.
type Client struct {
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a portal client for baseURL (e.g. https://portal.pknstan.ac.id).
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger,
	}
}

type session struct {
	baseURL    string
	httpClient *http.Client
}

func (c *Client) newSession() (*session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &session{
		baseURL: c.baseURL,
		httpClient: &http.Client{
			Timeout: c.timeout,
			Jar:     jar,
		},
	}, nil
}

// FetchSchedule logs in with the student's credentials and scrapes the schedule table.
func (c *Client) FetchSchedule(ctx context.Context, identity, password string) ([]model.RawScheduleEntry, error) {
	s, err := c.newSession()
	if err != nil {
		return nil, err
	}

	if err := s.login(ctx, identity, password); err != nil {
		return nil, err
	}

	entries, err := s.scrapeSchedule(ctx)
	if err != nil {
		return nil, err
	}

	// An empty table is ambiguous: either there are no classes or the login silently failed.
	if len(entries) == 0 {
		loggedOut, err := s.redirectedToLogin(ctx)
		if err != nil {
			return nil, err
		}
		if loggedOut {
			c.logger.Info("Portal login rejected", zap.String("identity", identity))
			return nil, apperrors.Unauthorized("Login Gagal. Periksa kembali NPM dan Password Anda.")
		}
	}

	c.logger.Info("Schedule scraped",
		zap.String("identity", identity),
		zap.Int("rows", len(entries)),
	)

	return entries, nil
}

func (s *session) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ServiceUnavailable("Error koneksi ke portal", err)
	}
	return resp, nil
}

func (s *session) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	return s.do(req)
}

func (s *session) login(ctx context.Context, identity, password string) error {
	form := url.Values{}

	// The login page sets the session cookie and may carry hidden fields such as a CSRF token.
	resp, err := s.get(ctx, loginPath)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusOK {
		if doc, err := goquery.NewDocumentFromReader(resp.Body); err == nil {
			doc.Find("form input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
				if name, ok := input.Attr("name"); ok && name != "" {
					form.Set(name, input.AttrOr("value", ""))
				}
			})
		}
	}
	drain(resp)

	form.Set("identity", identity)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err = s.do(req)
	if err != nil {
		return err
	}
	drain(resp)

	return nil
}

func (s *session) scrapeSchedule(ctx context.Context) ([]model.RawScheduleEntry, error) {
	resp, err := s.get(ctx, schedulePath)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Upstream(fmt.Sprintf("Gagal mengambil data jadwal: status %d", resp.StatusCode))
	}

	entries, err := ParseSchedule(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUpstream, "Gagal mengambil data jadwal", err)
	}
	return entries, nil
}

// redirectedToLogin reports whether the portal home bounces the session back to the login form.
func (s *session) redirectedToLogin(ctx context.Context) (bool, error) {
	resp, err := s.get(ctx, homePath)
	if err != nil {
		return false, err
	}
	defer drain(resp)

	return strings.Contains(resp.Request.URL.Path, strings.TrimPrefix(loginPath, "/")), nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
