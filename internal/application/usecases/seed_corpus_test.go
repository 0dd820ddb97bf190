package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/dining-concierge/internal/domain/recommend"
)

type memWriter struct {
	upserts map[string]string // id -> cuisine
}

func (w *memWriter) Upsert(_ context.Context, r recommend.Restaurant, cuisine string) error {
	if w.upserts == nil {
		w.upserts = map[string]string{}
	}
	w.upserts[r.ID] = cuisine
	return nil
}

type memIndexer struct {
	docs map[string]any
}

func (i *memIndexer) Index(_ context.Context, id string, doc any) error {
	if i.docs == nil {
		i.docs = map[string]any{}
	}
	i.docs[id] = doc
	return nil
}

func TestSeedCorpus(t *testing.T) {
	store := &memWriter{}
	index := &memIndexer{}
	u := SeedCorpus{Store: store, Index: index}

	entries := []CorpusEntry{
		{ID: "r-1", Name: "Alpha", Address: []string{"1 St"}, Cuisine: "italian"},
		{ID: "r-2", Name: "Beta", Address: []string{"2 Ave"}, Cuisine: "thai"},
		{ID: "", Name: "skipped"},
		{ID: "r-3", Name: ""},
	}
	n, err := u.Execute(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, map[string]string{"r-1": "italian", "r-2": "thai"}, store.upserts)
	assert.Len(t, index.docs, 2)
}
