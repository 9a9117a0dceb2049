package frontend

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/minesweeper/application"
)

// Store holds live games by id. Games idle for longer than the TTL are
// evicted, and every game leaving the store is closed so it gets recorded.
type Store struct {
	games *cache.Cache
	ttl   time.Duration
}

// NewStore returns a store whose games expire after ttl of inactivity.
// Expired games are swept every cleanupInterval.
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(id string, v any) {
		game, ok := v.(*application.Game)
		if !ok {
			return
		}
		if err := game.Close(context.Background()); err != nil {
			log.ErrorErr(log.CatHTTP, "Failed to close evicted game", err, "id", id)
			return
		}
		log.Debug(log.CatHTTP, "Game evicted", "id", id)
	})
	return &Store{games: c, ttl: ttl}
}

// Add stores game under its id.
func (s *Store) Add(game *application.Game) {
	s.games.Set(game.ID(), game, cache.DefaultExpiration)
}

// Get returns the game with id and extends its lifetime.
func (s *Store) Get(id string) (*application.Game, bool) {
	v, ok := s.games.Get(id)
	if !ok {
		return nil, false
	}
	game := v.(*application.Game)
	s.games.Set(id, game, cache.DefaultExpiration)
	return game, true
}

// Delete removes and closes the game with id. It reports whether the game
// existed.
func (s *Store) Delete(id string) bool {
	if _, ok := s.games.Get(id); !ok {
		return false
	}
	s.games.Delete(id)
	return true
}

// Len returns the number of stored games, expired ones included until the
// next sweep.
func (s *Store) Len() int {
	return s.games.ItemCount()
}

// Close removes and closes every game, including expired games the janitor
// has not swept yet.
func (s *Store) Close() {
	s.games.DeleteExpired()
	for id := range s.games.Items() {
		s.games.Delete(id)
	}
}
