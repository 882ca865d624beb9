// Package devstub serves a synthetic upstream for local development: an
// article catalog, per-user read histories, and per-article reading times.
package devstub

// Config holds configuration for the stub upstream.
type Config struct {
	Addr        string // HTTP listen address
	NumArticles int    // Number of articles to generate
	NumUsers    int    // Number of users with synthetic read histories
}

// wireArticle is the catalog payload shape.
type wireArticle struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	URL           string   `json:"url"`
	Topics        []string `json:"topics"`
	Keywords      []string `json:"keywords"`
	Summary       string   `json:"summary"`
	InsertionDate string   `json:"insertion_date"`
	ReadingTime   int      `json:"reading_time"`
}

// interactionsResponse is the per-user read history payload shape.
type interactionsResponse struct {
	UserID     string   `json:"user_id"`
	ArticleIDs []string `json:"article_ids"`
}

// readingTimeResponse is the per-article reading time payload shape.
type readingTimeResponse struct {
	ArticleID string `json:"article_id"`
	Seconds   int    `json:"seconds"`
}
