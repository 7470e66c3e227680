package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"trailing slash", "https://swapi.dev/api/films/1/", "1"},
		{"no trailing slash", "https://swapi.dev/api/people/42", "42"},
		{"many trailing slashes", "https://swapi.dev/api/people/7//", "7"},
		{"bare segment", "13", "13"},
		{"empty", "", ""},
		{"only slashes", "///", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IDFromURL(tt.url))
		})
	}
}

func TestDocument_BackfillID(t *testing.T) {
	t.Run("sets id when absent", func(t *testing.T) {
		doc := Document{"url": "https://swapi.dev/api/films/4/"}
		doc.BackfillIDFromURL()
		assert.Equal(t, "4", doc["id"])
	})

	t.Run("keeps upstream id", func(t *testing.T) {
		doc := Document{"id": "custom", "url": "https://swapi.dev/api/films/4/"}
		doc.BackfillIDFromURL()
		assert.Equal(t, "custom", doc["id"])
	})

	t.Run("keeps numeric upstream id", func(t *testing.T) {
		doc := Document{"id": float64(9)}
		doc.BackfillID("1")
		assert.Equal(t, float64(9), doc["id"])
	})

	t.Run("replaces empty id", func(t *testing.T) {
		doc := Document{"id": ""}
		doc.BackfillID("2")
		assert.Equal(t, "2", doc["id"])
	})

	t.Run("no url leaves id unset", func(t *testing.T) {
		doc := Document{"title": "Film A"}
		doc.BackfillIDFromURL()
		_, ok := doc["id"]
		assert.False(t, ok)
	})
}

func TestDocument_StringSlice(t *testing.T) {
	doc := Document{
		"characters": []any{"a", 1.0, "", "b"},
		"title":      "x",
	}

	refs, ok := doc.StringSlice("characters")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, refs)

	refs, ok = doc.StringSlice("missing")
	assert.True(t, ok)
	assert.Empty(t, refs)

	_, ok = doc.StringSlice("title")
	assert.False(t, ok)
}

func TestDocument_Documents(t *testing.T) {
	doc := Document{"results": []any{map[string]any{"title": "A"}}}
	items, ok := doc.Documents("results")
	assert.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, "A", items[0].String("title"))

	_, ok = Document{"results": []any{"nope"}}.Documents("results")
	assert.False(t, ok)

	_, ok = Document{}.Documents("results")
	assert.False(t, ok)
}
