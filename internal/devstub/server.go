package devstub

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/infopulse/recommender/pkg/logger"
)

// Server timeout constants.
const (
	readTimeout       = 5 * time.Second
	writeTimeout      = 5 * time.Second
	readHeaderTimeout = 2 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server holds the generated dataset and serves it over HTTP.
type Server struct {
	cfg       Config
	articles  []wireArticle
	histories map[string][]string
	times     map[string]int
	log       logger.Logger
}

// NewServer generates a dataset from cfg and prepares the HTTP surface.
func NewServer(cfg Config) *Server {
	articles := generateArticles(cfg.NumArticles)
	histories, times := generateHistories(cfg.NumUsers, articles)
	return &Server{
		cfg:       cfg,
		articles:  articles,
		histories: histories,
		times:     times,
		log:       logger.Named("devstub"),
	}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/articles", s.handleArticles)
	mux.HandleFunc("/interactions/", s.handleInteractions)
	mux.HandleFunc("/reading-times/", s.handleReadingTimes)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "stub upstream listening",
			logger.String("addr", s.cfg.Addr),
			logger.Int("articles", len(s.articles)),
			logger.Int("users", len(s.histories)),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, s.articles)
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/interactions/")
	if userID == "" {
		http.NotFound(w, r)
		return
	}
	// Unknown users get an empty history rather than a 404; the engine
	// treats them as new users.
	s.writeJSON(w, interactionsResponse{UserID: userID, ArticleIDs: s.histories[userID]})
}

func (s *Server) handleReadingTimes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	articleID := strings.TrimPrefix(r.URL.Path, "/reading-times/")
	seconds, ok := s.times[articleID]
	if articleID == "" || !ok {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, readingTimeResponse{ArticleID: articleID, Seconds: seconds})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn(context.Background(), "encode response failed", logger.Error(err))
	}
}
