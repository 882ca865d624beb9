package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/infopulse/recommender/internal/devstub"
	"github.com/infopulse/recommender/pkg/logger"
)

// Default configuration constants.
const (
	defaultAddr     = ":7070"
	defaultArticles = 200
	defaultUsers    = 20
)

func main() {
	var (
		addr     = flag.String("addr", defaultAddr, "HTTP listen address")
		articles = flag.Int("articles", defaultArticles, "Number of articles to generate")
		users    = flag.Int("users", defaultUsers, "Number of users with synthetic read histories")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := devstub.NewServer(devstub.Config{
		Addr:        *addr,
		NumArticles: *articles,
		NumUsers:    *users,
	})
	if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
		os.Stderr.WriteString("stub upstream failed: " + err.Error() + "\n")
	}
}
