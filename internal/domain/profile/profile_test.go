package profile_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/infopulse/recommender/internal/domain/model"
	"github.com/infopulse/recommender/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeInteractions struct {
	reads map[string][]string
	err   error
	calls atomic.Int64
}

func (f *fakeInteractions) ReadArticleIDs(_ context.Context, userID string) ([]string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.reads[userID], nil
}

type fakeTimes struct {
	seconds map[string]int
}

func (f *fakeTimes) ReadingTime(_ context.Context, articleID string) (int, bool) {
	s, ok := f.seconds[articleID]
	return s, ok
}

type fakeCatalog struct {
	articles map[string]model.Article
}

func (f *fakeCatalog) Catalog(_ context.Context) map[string]model.Article {
	return f.articles
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given a builder over fake sources", t, func() {
		catalog := &fakeCatalog{articles: map[string]model.Article{
			"a1": {ID: "a1", Topics: []string{"tech", "ai"}},
			"a2": {ID: "a2", Topics: []string{"tech"}},
			"a3": {ID: "a3", Topics: []string{"sports", "health"}},
			"a4": {ID: "a4", Topics: []string{"ai"}},
		}}
		times := &fakeTimes{seconds: map[string]int{
			"a1": 120, "a2": 200, "a3": 100,
		}}
		interactions := &fakeInteractions{reads: map[string][]string{
			"reader":  {"a1", "a2", "a3", "a4"},
			"skimmer": {"a1", "a2"},
		}}

		newBuilder := func() *profile.Builder {
			return profile.NewBuilder(interactions, times, catalog)
		}

		Convey("When the user has no read articles", func() {
			b := newBuilder()
			p, err := b.Build(context.Background(), "nobody")

			Convey("Then the default profile is returned", func() {
				So(err, ShouldBeNil)
				So(p.PreferredTopics, ShouldBeEmpty)
				So(p.LengthPreference, ShouldEqual, model.LengthMedium)
				So(p.InteractionCount, ShouldEqual, 0)
			})

			Convey("And it is cached", func() {
				before := interactions.calls.Load()
				_, err := b.Build(context.Background(), "nobody")
				So(err, ShouldBeNil)
				So(interactions.calls.Load(), ShouldEqual, before)
			})
		})

		Convey("When the user has reading history", func() {
			b := newBuilder()
			p, err := b.Build(context.Background(), "reader")

			Convey("Then preferred topics are ranked by frequency with first-seen tie-break", func() {
				So(err, ShouldBeNil)
				// tech: 2, ai: 2, sports: 1, health: 1; tech seen before ai,
				// sports before health.
				So(p.PreferredTopics, ShouldResemble, []string{"tech", "ai", "sports"})
			})

			Convey("Then the interaction count covers distinct read IDs", func() {
				So(p.InteractionCount, ShouldEqual, 4)
			})

			Convey("Then the length preference comes from the average reading time", func() {
				// samples 120, 200, 100 -> avg 140s -> medium
				So(p.LengthPreference, ShouldEqual, model.LengthMedium)
			})
		})

		Convey("When all reading-time samples are short", func() {
			times.seconds = map[string]int{"a1": 30, "a2": 40}
			b := newBuilder()
			p, err := b.Build(context.Background(), "skimmer")

			So(err, ShouldBeNil)
			So(p.LengthPreference, ShouldEqual, model.LengthShort)
		})

		Convey("When no reading-time samples exist at all", func() {
			times.seconds = map[string]int{}
			b := newBuilder()
			p, err := b.Build(context.Background(), "skimmer")

			Convey("Then the preference defaults to medium", func() {
				So(err, ShouldBeNil)
				So(p.LengthPreference, ShouldEqual, model.LengthMedium)
			})
		})

		Convey("When some read IDs do not resolve against the catalog", func() {
			interactions.reads["reader"] = []string{"ghost", "a1", "missing", "a2"}
			b := newBuilder()
			p, err := b.Build(context.Background(), "reader")

			Convey("Then they are skipped but still counted as interactions", func() {
				So(err, ShouldBeNil)
				So(p.PreferredTopics, ShouldResemble, []string{"tech", "ai"})
				So(p.InteractionCount, ShouldEqual, 4)
			})
		})

		Convey("When a profile is already cached", func() {
			b := newBuilder()
			_, err := b.Build(context.Background(), "reader")
			So(err, ShouldBeNil)
			before := interactions.calls.Load()

			Convey("Then a second build issues no upstream call", func() {
				_, err := b.Build(context.Background(), "reader")
				So(err, ShouldBeNil)
				So(interactions.calls.Load(), ShouldEqual, before)
			})

			Convey("And invalidation forces a fresh rebuild", func() {
				b.Invalidate()
				So(b.CachedCount(), ShouldEqual, 0)
				_, err := b.Build(context.Background(), "reader")
				So(err, ShouldBeNil)
				So(interactions.calls.Load(), ShouldEqual, before+1)
			})
		})

		Convey("When the interaction source is unavailable", func() {
			interactions.err = errors.New("connection refused")
			b := newBuilder()
			p, err := b.Build(context.Background(), "reader")

			Convey("Then the default profile is returned without error", func() {
				So(err, ShouldBeNil)
				So(p.InteractionCount, ShouldEqual, 0)
				So(p.LengthPreference, ShouldEqual, model.LengthMedium)
			})

			Convey("And it is not cached, so the user recovers later", func() {
				interactions.err = nil
				p, err := b.Build(context.Background(), "reader")
				So(err, ShouldBeNil)
				So(p.InteractionCount, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a builder with custom bounds", t, func() {
		catalog := &fakeCatalog{articles: map[string]model.Article{
			"a1": {ID: "a1", Topics: []string{"tech"}},
		}}
		times := &fakeTimes{seconds: map[string]int{"a1": 500}}
		interactions := &fakeInteractions{reads: map[string][]string{"u": {"a1"}}}

		b := profile.NewBuilder(interactions, times, catalog,
			profile.WithTopTopics(1),
			profile.WithLengthBounds(60*time.Second, 300*time.Second),
		)

		Convey("Then long average reading time yields a long preference", func() {
			p, err := b.Build(context.Background(), "u")
			So(err, ShouldBeNil)
			So(p.LengthPreference, ShouldEqual, model.LengthLong)
			So(p.PreferredTopics, ShouldResemble, []string{"tech"})
		})
	})
}
