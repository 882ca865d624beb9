package devstub

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Catalog shape constants.
const (
	maxTopicsPerArticle   = 3
	maxKeywordsPerArticle = 5
	maxAgeDays            = 45
	shortBodyChars        = 600
	mediumBodyChars       = 2000
	longBodyChars         = 4500
	minReadingSeconds     = 20
	maxReadingSeconds     = 600
	maxHistoryLength      = 8
)

var topicPool = []string{
	"tech", "ai", "science", "health", "finance",
	"sports", "politics", "climate", "culture", "space",
}

var keywordPool = []string{
	"research", "startups", "markets", "training", "policy",
	"models", "energy", "hardware", "privacy", "economy",
	"launch", "review", "analysis", "interview", "tutorial",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomInt(max int) int {
	if max <= 0 {
		return 0
	}
	return int(getRandomFloat() * float64(max))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pick(pool []string, count int) []string {
	if count > len(pool) {
		count = len(pool)
	}
	chosen := make([]string, 0, count)
	seen := make(map[int]struct{}, count)
	for len(chosen) < count {
		i := randomInt(len(pool))
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		chosen = append(chosen, pool[i])
	}
	return chosen
}

// generateArticles creates a synthetic catalog with varied topics, body
// lengths, and ages so ranking behavior is observable end to end.
func generateArticles(n int) []wireArticle {
	now := time.Now().UTC()
	articles := make([]wireArticle, n)
	for i := range articles {
		topics := pick(topicPool, 1+randomInt(maxTopicsPerArticle))
		ageDays := randomInt(maxAgeDays)
		bodyChars := shortBodyChars
		switch i % 3 {
		case 1:
			bodyChars = mediumBodyChars
		case 2:
			bodyChars = longBodyChars
		}
		articles[i] = wireArticle{
			ID:            uuid.New().String(),
			Title:         fmt.Sprintf("%s briefing #%d", capitalize(topics[0]), i+1),
			Content:       strings.Repeat("lorem ipsum dolor sit amet ", bodyChars/27+1)[:bodyChars],
			URL:           fmt.Sprintf("https://news.example.com/articles/%d", i+1),
			Topics:        topics,
			Keywords:      pick(keywordPool, 1+randomInt(maxKeywordsPerArticle)),
			Summary:       fmt.Sprintf("A short look at %s.", strings.Join(topics, " and ")),
			InsertionDate: now.AddDate(0, 0, -ageDays).Format(time.RFC3339),
			ReadingTime:   minReadingSeconds + randomInt(maxReadingSeconds-minReadingSeconds),
		}
	}
	return articles
}

// generateHistories assigns each synthetic user a read history drawn from the
// catalog, plus per-article reading times.
func generateHistories(users int, articles []wireArticle) (map[string][]string, map[string]int) {
	histories := make(map[string][]string, users)
	times := make(map[string]int, len(articles))
	for _, a := range articles {
		times[a.ID] = a.ReadingTime
	}
	for u := 0; u < users; u++ {
		userID := fmt.Sprintf("user-%d", u+1)
		count := 1 + randomInt(maxHistoryLength)
		if count > len(articles) {
			count = len(articles)
		}
		ids := make([]string, 0, count)
		seen := make(map[int]struct{}, count)
		for len(ids) < count {
			i := randomInt(len(articles))
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}
			ids = append(ids, articles[i].ID)
		}
		histories[userID] = ids
	}
	return histories, times
}
