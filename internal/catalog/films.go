package catalog

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"starwars-gateway/internal/models"
)

// FilmPage is one page of the filtered and sorted film list
type FilmPage struct {
	Count    int               `json:"count"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Results  []models.Document `json:"results"`
}

// ListFilms returns the film list filtered by title, sorted and paginated, in that order.
// Count is the number of films left after filtering.
func (s *Service) ListFilms(ctx context.Context, query ListQuery) (*FilmPage, error) {
	query = query.normalized()

	doc, err := s.fetchThrough(ctx, models.ResourceFilmList, filmsPath, s.ttl.FilmList, func(doc models.Document) {
		if films, ok := doc.Documents(models.FieldResults); ok {
			for _, film := range films {
				film.BackfillIDFromURL()
			}
		}
	})
	if err != nil {
		return nil, s.upstreamFailure("film_list", err)
	}

	films, ok := doc.Documents(models.FieldResults)
	if !ok {
		s.logger.Error("Film list payload has no usable results")
		return nil, fmt.Errorf("%w: film list results are not a list of objects", ErrInternal)
	}

	films = filterByTitle(films, query.Search)

	if SortFields[query.Sort] {
		desc := query.Order == OrderDesc
		slices.SortStableFunc(films, func(a, b models.Document) int {
			c := compareValues(a[query.Sort], b[query.Sort])
			if desc {
				return -c
			}
			return c
		})
	} else if query.Sort != "" {
		s.logger.Debug("Ignoring unknown sort field", zap.String("sort", query.Sort))
	}

	return &FilmPage{
		Count:    len(films),
		Page:     query.Page,
		PageSize: query.PageSize,
		Results:  paginate(films, query.Page, query.PageSize),
	}, nil
}

// GetFilm returns a single film with its id populated
func (s *Service) GetFilm(ctx context.Context, filmID string) (models.Document, error) {
	return s.fetchFilm(ctx, filmID)
}
