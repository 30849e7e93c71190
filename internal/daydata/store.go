package daydata

import (
	"fmt"
	"maps"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/aellingwood/anvil/internal/config"
)

// Store holds day values loaded from the configured data file and iCalendar
// feed. It is safe for concurrent use; Reload swaps the contents atomically.
type Store struct {
	cfg config.CalendarConfig
	md  *MarkdownRenderer

	mu     sync.RWMutex
	fixed  map[int]string
	events []Event
}

// NewStore creates an empty Store for cfg. Call Reload to populate it.
func NewStore(cfg config.CalendarConfig) *Store {
	s := &Store{cfg: cfg}
	if cfg.Markdown {
		s.md = NewMarkdownRenderer()
	}
	return s
}

// Paths returns the files the store reads from.
func (s *Store) Paths() []string {
	var paths []string
	for _, p := range []string{s.cfg.DayValues, s.cfg.ICSFile} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Reload re-reads the data file and feed. On error the previous contents are
// kept.
func (s *Store) Reload() error {
	var (
		fixed  map[int]string
		events []Event
		err    error
	)

	if s.cfg.DayValues != "" {
		fixed, err = Load(s.cfg.DayValues, s.md)
		if err != nil {
			return fmt.Errorf("reloading day values: %w", err)
		}
	}
	if s.cfg.ICSFile != "" {
		events, err = LoadICS(s.cfg.ICSFile)
		if err != nil {
			return fmt.Errorf("reloading calendar feed: %w", err)
		}
	}

	s.mu.Lock()
	s.fixed = fixed
	s.events = events
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"days":   len(fixed),
		"events": len(events),
	}).Debug("day values loaded")
	return nil
}

// Values returns the day values for a month. Entries from the data file take
// precedence over feed events on the same day.
func (s *Store) Values(year int, month time.Month) map[int]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := ForMonth(s.events, year, month)
	maps.Copy(values, s.fixed)
	return values
}
