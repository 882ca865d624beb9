package app_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	app "github.com/infopulse/recommender/internal/app"
	"github.com/infopulse/recommender/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	articles        []model.Article
	reads           map[string][]string
	times           map[string]int
	interactionsErr error

	articleCalls     atomic.Int64
	interactionCalls atomic.Int64
}

func (f *fakeSource) Articles(_ context.Context) ([]model.Article, error) {
	f.articleCalls.Add(1)
	return f.articles, nil
}

func (f *fakeSource) ReadArticleIDs(_ context.Context, userID string) ([]string, error) {
	f.interactionCalls.Add(1)
	if f.interactionsErr != nil {
		return nil, f.interactionsErr
	}
	return f.reads[userID], nil
}

func (f *fakeSource) ReadingTime(_ context.Context, articleID string) (int, bool) {
	s, ok := f.times[articleID]
	return s, ok
}

func resultIDs(rec model.Recommendation) []string {
	out := make([]string, len(rec.Articles))
	for i, a := range rec.Articles {
		out[i] = a.ID
	}
	return out
}

func startService(t *testing.T, source *fakeSource) *app.Service {
	t.Helper()
	svc := app.New(app.WithSource(source))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	return svc
}

func TestService_Recommend(t *testing.T) {
	now := time.Now().UTC()
	mediumBody := strings.Repeat("x", 1500)

	Convey("Given a service over a fake upstream", t, func() {
		source := &fakeSource{
			articles: []model.Article{
				{ID: "read-tech", Topics: []string{"tech"}, Content: mediumBody, InsertedAt: now.AddDate(0, 0, -20)},
				{ID: "A", Topics: []string{"tech", "ai"}, Content: mediumBody, InsertedAt: now},
				{ID: "B", Topics: []string{"sports"}, Content: mediumBody, InsertedAt: now.AddDate(0, 0, -7)},
			},
			reads: map[string][]string{
				"u1": {"read-tech"},
			},
			times: map[string]int{"read-tech": 120},
		}
		svc := startService(t, source)
		defer svc.Stop()

		Convey("When a user with tech history asks for recommendations", func() {
			rec, err := svc.Recommend(context.Background(), "u1", 10, true)

			Convey("Then the request succeeds with a personalized reason", func() {
				So(err, ShouldBeNil)
				So(rec.Reason, ShouldContainSubstring, "reading history")
				So(rec.Reason, ShouldContainSubstring, "tech")
				So(rec.RequestID, ShouldNotBeEmpty)
				So(rec.GeneratedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then the topic match ranks the tech article first", func() {
				So(err, ShouldBeNil)
				ids := resultIDs(rec)
				So(ids, ShouldContain, "A")
				So(ids, ShouldContain, "B")
				So(ids[0], ShouldEqual, "A")
			})

			Convey("Then read articles are excluded", func() {
				So(err, ShouldBeNil)
				So(resultIDs(rec), ShouldNotContain, "read-tech")
			})

			Convey("Then content-based entries carry their scores", func() {
				So(err, ShouldBeNil)
				So(rec.Articles[0].Score, ShouldBeGreaterThan, rec.Articles[1].Score)
			})
		})

		Convey("When exclude_read is disabled", func() {
			rec, err := svc.Recommend(context.Background(), "u1", 10, false)

			Convey("Then read articles may reappear", func() {
				So(err, ShouldBeNil)
				So(resultIDs(rec), ShouldContain, "read-tech")
			})
		})

		Convey("When a new user asks for recommendations", func() {
			rec, err := svc.Recommend(context.Background(), "newbie", 10, true)

			Convey("Then the recency fallback ranks newest first", func() {
				So(err, ShouldBeNil)
				So(rec.Reason, ShouldEqual, "popular recent articles for new users")
				So(resultIDs(rec), ShouldResemble, []string{"A", "B", "read-tech"})
			})
		})

		Convey("When the interaction source is down", func() {
			source.interactionsErr = errors.New("connection reset")
			rec, err := svc.Recommend(context.Background(), "u1", 10, true)

			Convey("Then the request still succeeds via the recency branch", func() {
				So(err, ShouldBeNil)
				So(rec.Reason, ShouldEqual, "popular recent articles for new users")
				So(len(rec.Articles), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the limit is smaller than the candidate pool", func() {
			rec, err := svc.Recommend(context.Background(), "newbie", 2, true)

			Convey("Then the output is truncated to the limit", func() {
				So(err, ShouldBeNil)
				So(len(rec.Articles), ShouldEqual, 2)
			})
		})
	})
}

func TestService_Expansion(t *testing.T) {
	now := time.Now().UTC()

	Convey("Given a catalog with a topical cluster the user has touched", t, func() {
		source := &fakeSource{
			articles: []model.Article{
				{ID: "seed", Topics: []string{"space"}, Keywords: []string{"mars"}, InsertedAt: now.AddDate(0, 0, -40)},
				{ID: "space-1", Topics: []string{"space"}, Keywords: []string{"mars"}, InsertedAt: now.AddDate(0, 0, -35)},
				{ID: "space-2", Topics: []string{"space"}, Keywords: []string{"rovers"}, InsertedAt: now.AddDate(0, 0, -37)},
				{ID: "other", Topics: []string{"finance"}, InsertedAt: now.AddDate(0, 0, -36)},
			},
			reads: map[string][]string{"u": {"seed"}},
			times: map[string]int{"seed": 100},
		}
		svc := startService(t, source)
		defer svc.Stop()

		Convey("When recommendations are computed", func() {
			rec, err := svc.Recommend(context.Background(), "u", 10, true)

			Convey("Then collaborative expansion contributes similar articles", func() {
				So(err, ShouldBeNil)
				ids := resultIDs(rec)
				So(ids, ShouldContain, "space-1")
				So(ids, ShouldNotContain, "seed")
			})

			Convey("Then nothing appears twice", func() {
				So(err, ShouldBeNil)
				seen := map[string]int{}
				for _, id := range resultIDs(rec) {
					seen[id]++
					So(seen[id], ShouldEqual, 1)
				}
			})
		})
	})
}

func TestService_SecondaryOperations(t *testing.T) {
	now := time.Now().UTC()

	Convey("Given a running service", t, func() {
		source := &fakeSource{
			articles: []model.Article{
				{ID: "a", Topics: []string{"Tech"}, InsertedAt: now.AddDate(0, 0, -1)},
				{ID: "b", Topics: []string{"sports"}, InsertedAt: now},
				{ID: "c", Topics: []string{"tech", "ai"}, InsertedAt: now.AddDate(0, 0, -2)},
			},
			reads: map[string][]string{"u": {"a"}},
			times: map[string]int{"a": 30},
		}
		svc := startService(t, source)
		defer svc.Stop()

		Convey("When trending articles are requested", func() {
			got, err := svc.Trending(context.Background(), 2)

			Convey("Then they come most-recent-first, truncated", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].ID, ShouldEqual, "b")
				So(got[1].ID, ShouldEqual, "a")
			})
		})

		Convey("When articles are requested by topic", func() {
			got, err := svc.ByTopic(context.Background(), "TECH", 10)

			Convey("Then matching is case-insensitive and recency-sorted", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].ID, ShouldEqual, "a")
				So(got[1].ID, ShouldEqual, "c")
			})
		})

		Convey("When a profile is requested", func() {
			p, err := svc.Profile(context.Background(), "u")

			Convey("Then it reflects the user's history", func() {
				So(err, ShouldBeNil)
				So(p.PreferredTopics, ShouldResemble, []string{"Tech"})
				So(p.LengthPreference, ShouldEqual, model.LengthShort)
				So(p.InteractionCount, ShouldEqual, 1)
			})
		})

		Convey("When caches are cleared", func() {
			_, err := svc.Profile(context.Background(), "u")
			So(err, ShouldBeNil)
			_, err = svc.Trending(context.Background(), 1)
			So(err, ShouldBeNil)

			articleCalls := source.articleCalls.Load()
			interactionCalls := source.interactionCalls.Load()

			svc.ClearCaches(context.Background())

			Convey("Then the next profile read hits the interaction source again", func() {
				_, err := svc.Profile(context.Background(), "u")
				So(err, ShouldBeNil)
				So(source.interactionCalls.Load(), ShouldEqual, interactionCalls+1)
			})

			Convey("Then the next catalog read refetches", func() {
				_, err := svc.Trending(context.Background(), 1)
				So(err, ShouldBeNil)
				So(source.articleCalls.Load(), ShouldEqual, articleCalls+1)
			})
		})

		Convey("When stats are requested", func() {
			_, err := svc.Trending(context.Background(), 1)
			So(err, ShouldBeNil)
			stats := svc.GetStats()

			So(stats["started"], ShouldEqual, true)
			So(stats["catalogSize"], ShouldEqual, 3)
		})
	})

	Convey("Given a service without a source", t, func() {
		svc := app.New()

		Convey("Then Start reports the missing dependency", func() {
			So(svc.Start(context.Background()), ShouldEqual, app.ErrNoSource)
		})
	})
}
