package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"starwars-gateway/internal/models"
	"starwars-gateway/internal/upstream"
)

func filmWithCharacters(refs ...string) models.Document {
	characters := make([]any, 0, len(refs))
	for _, ref := range refs {
		characters = append(characters, ref)
	}
	return models.Document{
		"title":      "A New Hope",
		"episode_id": float64(4),
		"url":        filmURL("1"),
		"characters": characters,
	}
}

func TestService_GetFilmCharacters(t *testing.T) {
	refs := []string{characterURL("1"), characterURL("2"), characterURL("3"), characterURL("4")}

	fetcher := newMockFetcher(t)
	fetcher.EXPECT().Fetch(gomock.Any(), "/films/1/", gomock.Nil()).Return(filmWithCharacters(refs...), nil)
	fetcher.EXPECT().Fetch(gomock.Any(), refs[0], gomock.Nil()).Return(models.Document{"name": "Luke Skywalker", "url": refs[0]}, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), refs[1], gomock.Nil()).Return(models.Document{"name": "C-3PO", "url": refs[1]}, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), refs[2], gomock.Nil()).Return(models.Document{"name": "R2-D2", "id": "r2"}, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), refs[3], gomock.Nil()).Return(models.Document{"name": "Darth Vader"}, nil)
	svc := newTestService(t, fetcher, newMemoryCache())

	result, err := svc.GetFilmCharacters(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, FilmSummary{ID: "1", Title: "A New Hope", EpisodeID: float64(4)}, result.Film)
	assert.Equal(t, 4, result.Count)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 4, result.PageSize)

	names := make([]string, 0, len(result.Results))
	for _, character := range result.Results {
		names = append(names, character.String("name"))
	}
	assert.Equal(t, []string{"Luke Skywalker", "C-3PO", "R2-D2", "Darth Vader"}, names)
	// from own url, upstream id, then the reference url
	assert.Equal(t, []any{"1", "2", "r2", "4"}, ids(result.Results))
}

func TestService_GetFilmCharacters_PartialFailure(t *testing.T) {
	refs := []string{characterURL("1"), characterURL("2"), characterURL("3")}

	fetcher := newMockFetcher(t)
	fetcher.EXPECT().Fetch(gomock.Any(), "/films/1/", gomock.Nil()).Return(filmWithCharacters(refs...), nil)
	fetcher.EXPECT().Fetch(gomock.Any(), refs[0], gomock.Nil()).Return(nil, &upstream.Error{Status: 500})
	fetcher.EXPECT().Fetch(gomock.Any(), refs[1], gomock.Nil()).Return(models.Document{"name": "C-3PO", "url": refs[1]}, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), refs[2], gomock.Nil()).Return(nil, upstream.ErrUnavailable)
	svc := newTestService(t, fetcher, newMemoryCache())

	result, err := svc.GetFilmCharacters(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, result.PageSize)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "C-3PO", result.Results[0].String("name"))
}

func TestService_GetFilmCharacters_CachesCharacters(t *testing.T) {
	refs := []string{characterURL("1"), characterURL("2")}

	fetcher := newMockFetcher(t)
	fetcher.EXPECT().Fetch(gomock.Any(), "/films/1/", gomock.Nil()).Return(filmWithCharacters(refs...), nil).Times(1)
	fetcher.EXPECT().Fetch(gomock.Any(), refs[0], gomock.Nil()).Return(models.Document{"name": "Luke Skywalker"}, nil).Times(1)
	fetcher.EXPECT().Fetch(gomock.Any(), refs[1], gomock.Nil()).Return(models.Document{"name": "C-3PO"}, nil).Times(1)
	svc := newTestService(t, fetcher, newMemoryCache())

	first, err := svc.GetFilmCharacters(context.Background(), "1")
	require.NoError(t, err)
	second, err := svc.GetFilmCharacters(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestService_GetFilmCharacters_NoCharacters(t *testing.T) {
	fetcher := newMockFetcher(t)
	fetcher.EXPECT().Fetch(gomock.Any(), "/films/1/", gomock.Nil()).Return(models.Document{"title": "Untitled"}, nil)
	svc := newTestService(t, fetcher, newMemoryCache())

	result, err := svc.GetFilmCharacters(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Count)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
}

func TestService_GetFilmCharacters_FilmErrors(t *testing.T) {
	tests := []struct {
		name      string
		film      models.Document
		fetchErr  error
		wantError error
	}{
		{name: "film not found", fetchErr: &upstream.Error{Status: 404}, wantError: ErrFilmNotFound},
		{name: "upstream down", fetchErr: upstream.ErrUnavailable, wantError: ErrUpstreamUnavailable},
		{name: "characters not a list", film: models.Document{"characters": "luke"}, wantError: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newMockFetcher(t)
			fetcher.EXPECT().Fetch(gomock.Any(), "/films/1/", gomock.Nil()).Return(tt.film, tt.fetchErr)
			svc := newTestService(t, fetcher, newMemoryCache())

			result, err := svc.GetFilmCharacters(context.Background(), "1")
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantError)
		})
	}
}

func TestService_GetFilmCharacters_InvalidFilmID(t *testing.T) {
	fetcher := newMockFetcher(t)
	svc := newTestService(t, fetcher, newMemoryCache())

	_, err := svc.GetFilmCharacters(context.Background(), "../../people")
	assert.ErrorIs(t, err, ErrFilmNotFound)
}
