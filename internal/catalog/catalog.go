// Package catalog holds the static song data assigned to rooms and served to
// clients. Loaded once at startup, read-only afterwards.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"duetsync/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrEmptyCatalog = errors.New("catalog has no songs")

type Catalog struct {
	songs []domain.Song
}

// Load reads a songs file of the form {"songs": [...]}.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read songs file: %w", err)
	}
	var data struct {
		Songs []domain.Song `json:"songs"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse songs file: %w", err)
	}
	if len(data.Songs) == 0 {
		return nil, ErrEmptyCatalog
	}
	log.Info().Str("module", "catalog").Str("path", path).Int("songs", len(data.Songs)).Msg("catalog loaded")
	return &Catalog{songs: data.Songs}, nil
}

// New builds a catalog from an in-memory slice.
func New(songs []domain.Song) (*Catalog, error) {
	if len(songs) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{songs: songs}, nil
}

// Random picks one song uniformly.
func (c *Catalog) Random() *domain.Song {
	return &c.songs[rand.IntN(len(c.songs))]
}

// Songs returns the full catalog for the read-only HTTP endpoint.
func (c *Catalog) Songs() []domain.Song { return c.songs }

func (c *Catalog) Len() int { return len(c.songs) }
