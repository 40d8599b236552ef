// Package scrollspy decides which table-of-contents entry is active for a
// given scroll position.
package scrollspy

import (
	"sync"

	"github.com/jinkyeom/sciencestop/internal/models"
)

// Defaults match a browser viewport measured in CSS pixels.
const (
	DefaultBand        = 120
	DefaultBottomSlack = 2
)

// Position is where one heading currently sits relative to the top of the
// viewport. Negative values are above it.
type Position struct {
	ID  string
	Top float64
}

// Snapshot is one observation of the scroll state.
type Snapshot struct {
	ScrollY        float64
	ViewportHeight float64
	ScrollHeight   float64
	Headings       []Position
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithBand sets how far below the viewport top a heading may sit and still
// become active.
func WithBand(band float64) Option {
	return func(t *Tracker) { t.band = band }
}

// WithBottomSlack sets how close to the end of the document counts as the
// bottom.
func WithBottomSlack(slack float64) Option {
	return func(t *Tracker) { t.slack = slack }
}

// Tracker holds the active heading id for one document.
type Tracker struct {
	mu     sync.Mutex
	toc    []models.Heading
	active string
	band   float64
	slack  float64
}

// NewTracker creates a tracker for toc.
func NewTracker(toc []models.Heading, opts ...Option) *Tracker {
	t := &Tracker{band: DefaultBand, slack: DefaultBottomSlack}
	for _, opt := range opts {
		opt(t)
	}
	t.toc = append([]models.Heading(nil), toc...)
	return t
}

// Active returns the current active id, "" before the first match.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Reset switches to a new document's toc and clears the active id.
func (t *Tracker) Reset(toc []models.Heading) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toc = append([]models.Heading(nil), toc...)
	t.active = ""
}

// Observe applies a snapshot and returns the active id and whether it
// changed.
//
// At the bottom of the document the last toc entry wins. Otherwise the
// heading with the largest Top inside [0, band] wins; the first one listed
// wins a tie. With no heading in the band the previous id is kept.
func (t *Tracker) Observe(s Snapshot) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.pick(s)
	if next == "" || next == t.active {
		return t.active, false
	}
	t.active = next
	return next, true
}

func (t *Tracker) pick(s Snapshot) string {
	if s.ViewportHeight+s.ScrollY >= s.ScrollHeight-t.slack {
		if len(t.toc) == 0 {
			return ""
		}
		return t.toc[len(t.toc)-1].ID
	}

	best := ""
	bestTop := 0.0
	for _, h := range s.Headings {
		if h.Top < 0 || h.Top > t.band {
			continue
		}
		if best == "" || h.Top > bestTop {
			best, bestTop = h.ID, h.Top
		}
	}
	return best
}
