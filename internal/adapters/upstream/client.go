// Package upstream implements HTTP clients for the article, interaction, and
// reading-time sources the engine consumes.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/infopulse/recommender/internal/domain/model"
	"github.com/infopulse/recommender/pkg/logger"
	"github.com/infopulse/recommender/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout = 3 * time.Second

	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second

	millisecondsPerSecond = 1000
)

// Source labels used in logs and metrics.
const (
	sourceArticles     = "articles"
	sourceInteractions = "interactions"
	sourceReadingTimes = "reading_times"
)

// Client talks to the three upstream sources. The catalog fetch runs behind a
// circuit breaker so a flapping article source fails fast to the stale
// snapshot instead of stalling every request on timeouts.
type Client struct {
	http            *http.Client
	articlesURL     string
	interactionsURL string
	readingTimesURL string
	timeout         time.Duration
	breaker         *gobreaker.CircuitBreaker[[]model.Article]
	log             logger.Logger
}

// New creates a Client for the given source URLs with configuration options.
func New(articlesURL, interactionsURL, readingTimesURL string, opts ...Option) *Client {
	c := &Client{
		http:            &http.Client{},
		articlesURL:     articlesURL,
		interactionsURL: interactionsURL,
		readingTimesURL: readingTimesURL,
		timeout:         defaultTimeout,
		log:             logger.Get(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]model.Article](gobreaker.Settings{
		Name:    "article-source",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
	})

	return c
}

// wireArticle mirrors the upstream catalog record. The insertion timestamp is
// a string so a malformed value degrades to a zero time instead of failing
// the whole catalog decode.
type wireArticle struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	URL           string   `json:"url"`
	Topics        []string `json:"topics"`
	Keywords      []string `json:"keywords"`
	Summary       string   `json:"summary"`
	InsertionDate string   `json:"insertion_date"`
}

func (w wireArticle) toModel() model.Article {
	return model.Article{
		ID:         w.ID,
		Title:      w.Title,
		Content:    w.Content,
		URL:        w.URL,
		Topics:     w.Topics,
		Keywords:   w.Keywords,
		Summary:    w.Summary,
		InsertedAt: parseInstant(w.InsertionDate),
	}
}

// parseInstant accepts ISO 8601 with a trailing Z or numeric offset. Anything
// unparseable yields a zero time, which the scorer treats as "no recency".
func parseInstant(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Articles fetches the full catalog. Errors (including an open breaker) are
// returned for the snapshot store to translate into a stale-or-empty
// fallback.
func (c *Client) Articles(ctx context.Context) ([]model.Article, error) {
	return c.breaker.Execute(func() ([]model.Article, error) {
		var wire []wireArticle
		if err := c.getJSON(ctx, sourceArticles, c.articlesURL, &wire); err != nil {
			return nil, err
		}
		articles := make([]model.Article, len(wire))
		for i, w := range wire {
			articles[i] = w.toModel()
		}
		return articles, nil
	})
}

// interactionsResponse mirrors the interaction source body.
type interactionsResponse struct {
	UserID     string   `json:"user_id"`
	ArticleIDs []string `json:"article_ids"`
}

// ReadArticleIDs fetches the IDs of articles the user has read, most recent
// first. Callers map an error to "no interaction history".
func (c *Client) ReadArticleIDs(ctx context.Context, userID string) ([]string, error) {
	var resp interactionsResponse
	url := fmt.Sprintf("%s/%s", c.interactionsURL, userID)
	if err := c.getJSON(ctx, sourceInteractions, url, &resp); err != nil {
		return nil, err
	}
	return resp.ArticleIDs, nil
}

// readingTimeResponse mirrors the reading-time source body.
type readingTimeResponse struct {
	ArticleID string `json:"article_id"`
	Seconds   int    `json:"seconds"`
}

// ReadingTime fetches the recorded reading time for an article. A missing
// sample or a failed lookup returns ok=false; the profile builder excludes
// such articles from the average.
func (c *Client) ReadingTime(ctx context.Context, articleID string) (int, bool) {
	var resp readingTimeResponse
	url := fmt.Sprintf("%s/%s", c.readingTimesURL, articleID)
	if err := c.getJSON(ctx, sourceReadingTimes, url, &resp); err != nil {
		return 0, false
	}
	if resp.Seconds < 0 {
		return 0, false
	}
	return resp.Seconds, true
}

// getJSON issues one GET with the per-call timeout and decodes the body.
func (c *Client) getJSON(ctx context.Context, source, url string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamError(source)
		c.log.Warn(ctx, "upstream request failed",
			logger.String("source", source),
			logger.Error(err),
		)
		return fmt.Errorf("%s: %w: %w", source, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(source, float64(time.Since(start).Seconds()*millisecondsPerSecond))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", source, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamError(source)
		c.log.Warn(ctx, "upstream returned unexpected status",
			logger.String("source", source),
			logger.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%s: %w: status %d", source, ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordUpstreamError(source)
		c.log.Warn(ctx, "upstream payload decode failed",
			logger.String("source", source),
			logger.Error(err),
		)
		return fmt.Errorf("%s: %w: %w", source, ErrBadPayload, err)
	}
	return nil
}
