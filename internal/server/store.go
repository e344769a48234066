package server

import (
	"context"
	"sync"
	"time"

	"github.com/Zuo-Peng/coachdoc/internal/transcript"
	"github.com/rs/zerolog"
)

// Upload is a parsed transcript held between the upload and document requests.
type Upload struct {
	ID        string             `json:"id"`
	Filename  string             `json:"filename"`
	Format    transcript.Format  `json:"format"`
	Speakers  []string           `json:"speakers"`
	Entries   []transcript.Entry `json:"entries"`
	CreatedAt time.Time          `json:"created_at"`
}

// Store keeps uploads in memory.
type Store struct {
	mu      sync.RWMutex
	uploads map[string]*Upload
}

func NewStore() *Store {
	return &Store{uploads: make(map[string]*Upload)}
}

func (s *Store) Put(u *Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[u.ID] = u
}

func (s *Store) Get(id string) (*Upload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.uploads[id]
	return u, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.uploads)
}

// Evict removes uploads created before cutoff and returns how many went.
func (s *Store) Evict(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, u := range s.uploads {
		if u.CreatedAt.Before(cutoff) {
			delete(s.uploads, id)
			n++
		}
	}
	return n
}

// RunJanitor evicts uploads older than maxAge every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval, maxAge time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Evict(now.Add(-maxAge)); n > 0 {
				log.Info().Int("evicted", n).Int("remaining", s.Len()).Msg("expired uploads removed")
			}
		}
	}
}
