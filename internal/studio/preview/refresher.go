package preview

import (
	"sync"
	"time"

	"memorial-app/internal/domain/memorials"
)

// Preview refresh is deliberately decoupled from the autosave window:
// the preview should feel instant while network writes stay throttled.
const (
	DelayDesktop = 300 * time.Millisecond
	DelayMobile  = 500 * time.Millisecond
)

// Refresher debounces preview recomputation. Each Schedule restarts
// the timer; when it fires, only the latest snapshot is rendered.
type Refresher struct {
	delay  time.Duration
	render func(*Page)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending *memorials.Memorial
	theme   Theme
	closed  bool
}

func NewRefresher(delay time.Duration, render func(*Page)) *Refresher {
	return &Refresher{delay: delay, render: render}
}

// SetTheme changes the theme for subsequent renders. Theme choice is a
// client-local preference and never touches the draft.
func (r *Refresher) SetTheme(theme Theme) {
	r.mu.Lock()
	r.theme = theme
	r.mu.Unlock()
}

func (r *Refresher) Schedule(draft *memorials.Memorial) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.pending = draft
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(r.delay, func() { r.fire(gen) })
	r.mu.Unlock()
}

func (r *Refresher) fire(gen uint64) {
	r.mu.Lock()
	if r.closed || gen != r.gen || r.pending == nil {
		r.mu.Unlock()
		return
	}
	snap := r.pending
	r.pending = nil
	r.timer = nil
	theme := r.theme
	r.mu.Unlock()

	if theme == "" {
		theme = ThemeClassic
	}
	r.render(Render(snap, theme))
}

func (r *Refresher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
