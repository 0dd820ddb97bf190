package usecases

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/example/dining-concierge/internal/domain/recommend"
)

// CorpusEntry is one restaurant in a pre-collected corpus file.
type CorpusEntry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address []string `json:"address"`
	Cuisine string   `json:"cuisine"`
}

type RestaurantWriter interface {
	Upsert(ctx context.Context, r recommend.Restaurant, cuisine string) error
}

type CorpusIndexer interface {
	Index(ctx context.Context, id string, doc any) error
}

// SeedCorpus loads a corpus into the record store and the search index.
// Collection of the corpus itself happens offline, outside this binary.
type SeedCorpus struct {
	Store RestaurantWriter
	Index CorpusIndexer
	Log   *log.Logger
}

type indexDoc struct {
	ID      string `json:"id"`
	Cuisine string `json:"cuisine"`
}

func (u SeedCorpus) Execute(ctx context.Context, entries []CorpusEntry) (int, error) {
	n := 0
	for _, e := range entries {
		if e.ID == "" || e.Name == "" {
			continue
		}
		r := recommend.Restaurant{ID: e.ID, Name: e.Name, Address: e.Address}
		if err := u.Store.Upsert(ctx, r, e.Cuisine); err != nil {
			return n, fmt.Errorf("upsert %s: %w", e.ID, err)
		}
		if err := u.Index.Index(ctx, e.ID, indexDoc{ID: e.ID, Cuisine: e.Cuisine}); err != nil {
			return n, fmt.Errorf("index %s: %w", e.ID, err)
		}
		n++
	}
	if u.Log != nil {
		u.Log.Info("corpus seeded", "restaurants", n)
	}
	return n, nil
}
