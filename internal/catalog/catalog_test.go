package catalog

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"starwars-gateway/internal/cache"
	"starwars-gateway/internal/cache/memory"
	"starwars-gateway/internal/config"
	"starwars-gateway/internal/interfaces"
	"starwars-gateway/internal/interfaces/mock"
	"starwars-gateway/internal/models"
)

const testBaseURL = "https://swapi.test/api"

var testTTL = config.CacheTTLConfig{
	FilmList:  time.Minute,
	Film:      5 * time.Minute,
	Character: 5 * time.Minute,
}

func newTestService(t *testing.T, fetcher interfaces.Fetcher, c interfaces.Cache) *Service {
	return NewService(fetcher, c, cache.NewKeyBuilder(), testTTL, 4, zaptest.NewLogger(t))
}

// newMockFetcher returns a fetcher mock that resolves references like the real client
func newMockFetcher(t *testing.T) *mock.MockFetcher {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockFetcher(ctrl)
	fetcher.EXPECT().ResolveURL(gomock.Any()).DoAndReturn(func(ref string) string {
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			return ref
		}
		return testBaseURL + "/" + strings.TrimLeft(ref, "/")
	}).AnyTimes()
	return fetcher
}

func filmURL(id string) string {
	return testBaseURL + "/films/" + id + "/"
}

func characterURL(id string) string {
	return testBaseURL + "/people/" + id + "/"
}

// filmListFixture mirrors the shape of the upstream film collection
func filmListFixture() models.Document {
	return models.Document{
		"count": float64(4),
		"results": []any{
			map[string]any{"title": "A New Hope", "episode_id": float64(4), "release_date": "1977-05-25", "url": filmURL("1")},
			map[string]any{"title": "The Empire Strikes Back", "episode_id": float64(5), "release_date": "1980-05-17", "url": filmURL("2")},
			map[string]any{"title": "Return of the Jedi", "episode_id": float64(6), "release_date": "1983-05-25", "url": filmURL("3")},
			map[string]any{"title": "The Phantom Menace", "episode_id": float64(1), "release_date": "1999-05-19", "url": filmURL("4")},
		},
	}
}

func titles(docs []models.Document) []string {
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.String(models.FieldTitle))
	}
	return out
}

func ids(docs []models.Document) []any {
	out := make([]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc[models.FieldID])
	}
	return out
}

func newMemoryCache() interfaces.Cache {
	return memory.NewMemoryCache()
}
