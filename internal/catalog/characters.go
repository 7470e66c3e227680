package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"starwars-gateway/internal/metrics"
	"starwars-gateway/internal/models"
)

// FilmSummary identifies the film a character list belongs to
type FilmSummary struct {
	ID        any `json:"id"`
	Title     any `json:"title"`
	EpisodeID any `json:"episode_id"`
}

// FilmCharacters is the resolved cast of a film
type FilmCharacters struct {
	Film     FilmSummary       `json:"film"`
	Count    int               `json:"count"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Results  []models.Document `json:"results"`
}

// GetFilmCharacters resolves every character referenced by the film. Characters that
// cannot be fetched are logged and left out; the rest keep the film's reference order.
func (s *Service) GetFilmCharacters(ctx context.Context, filmID string) (*FilmCharacters, error) {
	film, err := s.fetchFilm(ctx, filmID)
	if err != nil {
		return nil, err
	}

	refs, ok := film.StringSlice(models.FieldCharacters)
	if !ok {
		return nil, fmt.Errorf("%w: film %s characters is not a list", ErrInternal, filmID)
	}

	resolved := make([]models.Document, len(refs))

	var g errgroup.Group
	g.SetLimit(s.fanout)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			character, err := s.fetchThrough(ctx, models.ResourceCharacter, ref, s.ttl.Character, func(doc models.Document) {
				doc.BackfillIDFromURL()
				doc.BackfillID(models.IDFromURL(ref))
			})
			if err != nil {
				metrics.RecordCharacterFetchFailure()
				s.logger.Warn("Skipping character",
					zap.String("film_id", filmID),
					zap.String("ref", ref),
					zap.Error(err))
				return nil
			}
			resolved[i] = character
			return nil
		})
	}
	// workers never return errors, failures are dropped above
	_ = g.Wait()

	results := make([]models.Document, 0, len(resolved))
	for _, character := range resolved {
		if character != nil {
			results = append(results, character)
		}
	}

	return &FilmCharacters{
		Film: FilmSummary{
			ID:        film[models.FieldID],
			Title:     film[models.FieldTitle],
			EpisodeID: film[models.FieldEpisodeID],
		},
		Count:    len(results),
		Page:     1,
		PageSize: len(results),
		Results:  results,
	}, nil
}
