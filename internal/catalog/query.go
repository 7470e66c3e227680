package catalog

import (
	"cmp"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"starwars-gateway/internal/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortFields lists the film fields accepted by ListQuery.Sort
var SortFields = map[string]bool{
	models.FieldTitle:     true,
	"release_date":        true,
	models.FieldEpisodeID: true,
}

// ListQuery controls filtering, ordering and paging of the film list
type ListQuery struct {
	Search   string
	Sort     string
	Order    string
	Page     int
	PageSize int
}

// ParseListQuery reads a ListQuery from URL query values. Invalid page values fall back
// to the defaults rather than failing the request.
func ParseListQuery(values url.Values) ListQuery {
	return ListQuery{
		Search:   strings.TrimSpace(values.Get("search")),
		Sort:     strings.TrimSpace(values.Get("sort")),
		Order:    strings.ToLower(strings.TrimSpace(values.Get("order"))),
		Page:     positiveInt(values.Get("page"), DefaultPage),
		PageSize: positiveInt(values.Get("page_size"), DefaultPageSize),
	}
}

func (q ListQuery) normalized() ListQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// filterByTitle keeps films whose title contains search, ignoring case
func filterByTitle(films []models.Document, search string) []models.Document {
	if search == "" {
		return films
	}
	needle := strings.ToLower(search)
	out := make([]models.Document, 0, len(films))
	for _, film := range films {
		if strings.Contains(strings.ToLower(film.String(models.FieldTitle)), needle) {
			out = append(out, film)
		}
	}
	return out
}

// compareValues orders two decoded JSON values: missing < numbers < strings < anything else.
// Values of the same kind compare naturally.
func compareValues(a, b any) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch av := a.(type) {
	case nil:
		return 0
	case float64:
		return cmp.Compare(av, b.(float64))
	case string:
		return strings.Compare(av, b.(string))
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func valueRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

// paginate returns the 1-based page of items, empty when out of range
func paginate(items []models.Document, page, pageSize int) []models.Document {
	// bounds are checked before multiplying so huge query values cannot overflow
	if page-1 >= len(items) || (page > 1 && pageSize >= len(items)) {
		return []models.Document{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []models.Document{}
	}
	end := len(items)
	if pageSize < end-start {
		end = start + pageSize
	}
	return items[start:end]
}
