package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	api "github.com/infopulse/recommender/internal/adapters/http/api"
	"github.com/infopulse/recommender/internal/domain/model"
)

type fakeDeps struct {
	rec          model.Recommendation
	recErr       error
	lastLimit    int
	lastExclude  bool
	profile      model.UserProfile
	profileErr   error
	articles     []model.Article
	articlesErr  error
	lastTopic    string
	clearedCount int
}

func (f *fakeDeps) Recommend(_ context.Context, userID string, limit int, excludeRead bool) (model.Recommendation, error) {
	f.lastLimit = limit
	f.lastExclude = excludeRead
	if f.recErr != nil {
		return model.Recommendation{}, f.recErr
	}
	rec := f.rec
	rec.UserID = userID
	return rec, nil
}

func (f *fakeDeps) Profile(_ context.Context, userID string) (model.UserProfile, error) {
	if f.profileErr != nil {
		return model.UserProfile{}, f.profileErr
	}
	p := f.profile
	p.UserID = userID
	return p, nil
}

func (f *fakeDeps) Trending(_ context.Context, limit int) ([]model.Article, error) {
	f.lastLimit = limit
	return f.articles, f.articlesErr
}

func (f *fakeDeps) ByTopic(_ context.Context, topic string, limit int) ([]model.Article, error) {
	f.lastTopic = topic
	f.lastLimit = limit
	return f.articles, f.articlesErr
}

func (f *fakeDeps) ClearCaches(_ context.Context) {
	f.clearedCount++
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, fakeStats{}, 50).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestRecommendationsEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &fakeDeps{
			rec: model.Recommendation{
				RequestID:   "req-1",
				Articles:    []model.ScoredArticle{{Article: model.Article{ID: "a1"}, Score: 0.9, Reason: "content match"}},
				Reason:      "based on reading history",
				GeneratedAt: time.Now().UTC(),
			},
		}
		mux := newTestMux(deps)

		Convey("When recommendations are requested for a user", func() {
			rr := do(mux, http.MethodGet, "/recommendations/u1?limit=5")

			Convey("Then the ranked payload is returned", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				var got model.Recommendation
				So(json.Unmarshal(rr.Body.Bytes(), &got), ShouldBeNil)
				So(got.UserID, ShouldEqual, "u1")
				So(got.Articles, ShouldHaveLength, 1)
				So(deps.lastLimit, ShouldEqual, 5)
				So(deps.lastExclude, ShouldBeTrue)
			})
		})

		Convey("When exclude_read is set to false", func() {
			rr := do(mux, http.MethodGet, "/recommendations/u1?exclude_read=false")

			So(rr.Code, ShouldEqual, http.StatusOK)
			So(deps.lastExclude, ShouldBeFalse)
		})

		Convey("When the limit is not a positive integer", func() {
			for _, q := range []string{"limit=0", "limit=-3", "limit=abc"} {
				rr := do(mux, http.MethodGet, "/recommendations/u1?"+q)
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			rr := do(mux, http.MethodGet, "/recommendations/u1?limit=51")
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When exclude_read is not a boolean", func() {
			rr := do(mux, http.MethodGet, "/recommendations/u1?exclude_read=maybe")
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the user segment is missing", func() {
			rr := do(mux, http.MethodGet, "/recommendations/")
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the engine fails internally", func() {
			deps.recErr = errors.New("ranking panic recovered")
			rr := do(mux, http.MethodGet, "/recommendations/u1")
			So(rr.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When the method is not GET", func() {
			rr := do(mux, http.MethodPost, "/recommendations/u1")
			So(rr.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestProfileEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &fakeDeps{
			profile: model.UserProfile{
				PreferredTopics:  []string{"tech", "ai"},
				LengthPreference: model.LengthMedium,
				InteractionCount: 4,
			},
		}
		mux := newTestMux(deps)

		Convey("When a profile is requested", func() {
			rr := do(mux, http.MethodGet, "/profile/u7")

			So(rr.Code, ShouldEqual, http.StatusOK)
			var got model.UserProfile
			So(json.Unmarshal(rr.Body.Bytes(), &got), ShouldBeNil)
			So(got.UserID, ShouldEqual, "u7")
			So(got.PreferredTopics, ShouldResemble, []string{"tech", "ai"})
		})

		Convey("When the user segment has extra path parts", func() {
			rr := do(mux, http.MethodGet, "/profile/u7/extra")
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the profile build fails", func() {
			deps.profileErr = errors.New("catalog unavailable")
			rr := do(mux, http.MethodGet, "/profile/u7")
			So(rr.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestCatalogEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &fakeDeps{
			articles: []model.Article{{ID: "a1"}, {ID: "a2"}},
		}
		mux := newTestMux(deps)

		Convey("When trending articles are requested", func() {
			rr := do(mux, http.MethodGet, "/trending?limit=2")

			So(rr.Code, ShouldEqual, http.StatusOK)
			var got []model.Article
			So(json.Unmarshal(rr.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(deps.lastLimit, ShouldEqual, 2)
		})

		Convey("When trending is requested without a limit", func() {
			rr := do(mux, http.MethodGet, "/trending")

			So(rr.Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 0)
		})

		Convey("When articles are requested by topic", func() {
			rr := do(mux, http.MethodGet, "/topics/science?limit=10")

			So(rr.Code, ShouldEqual, http.StatusOK)
			So(deps.lastTopic, ShouldEqual, "science")
			So(deps.lastLimit, ShouldEqual, 10)
		})

		Convey("When the topic segment is missing", func() {
			rr := do(mux, http.MethodGet, "/topics/")
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCachesEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &fakeDeps{}
		mux := newTestMux(deps)

		Convey("When caches are cleared via POST", func() {
			rr := do(mux, http.MethodPost, "/caches/clear")

			So(rr.Code, ShouldEqual, http.StatusOK)
			So(deps.clearedCount, ShouldEqual, 1)
			So(rr.Body.String(), ShouldContainSubstring, "cleared")
		})

		Convey("When the wrong method is used", func() {
			rr := do(mux, http.MethodGet, "/caches/clear")

			So(rr.Code, ShouldEqual, http.StatusNotFound)
			So(deps.clearedCount, ShouldEqual, 0)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(&fakeDeps{})

		Convey("When stats are requested", func() {
			rr := do(mux, http.MethodGet, "/stats")

			So(rr.Code, ShouldEqual, http.StatusOK)
			So(rr.Body.String(), ShouldContainSubstring, "started")
		})
	})
}
