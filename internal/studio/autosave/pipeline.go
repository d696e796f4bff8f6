// Package autosave turns a rapidly-changing in-memory draft into a
// bounded rate of persistence calls. Only the last snapshot within the
// debounce window is written, a byte-identical payload is never written
// twice in a row, and a newer save supersedes an older in-flight one by
// cancelling its context.
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"memorial-app/internal/domain/memorials"
)

type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// ErrSuperseded reports that a save was cancelled because a newer one
// took its place. It is not a failure and never reaches the caller
// through the error callback.
var ErrSuperseded = errors.New("save superseded by a newer one")

// SaveResult is the transport's answer to a create-or-update call.
type SaveResult struct {
	ID      string
	Created bool
}

// Saver is the persistence transport. Save must honor ctx cancellation
// and create when the draft has no id, update otherwise.
type Saver interface {
	Save(ctx context.Context, draft *memorials.Memorial) (*SaveResult, error)
}

const DefaultDelay = 2 * time.Second

type Pipeline struct {
	saver Saver
	delay time.Duration

	onStatus  func(Status)
	onCreated func(id string)
	onError   func(error)

	mu             sync.Mutex
	timer          *time.Timer
	pending        *memorials.Memorial
	gen            uint64
	inflightGen    uint64
	cancelInFlight context.CancelFunc
	lastPersisted  string
	status         Status
	draftID        string
	createdFired   bool
	lastSavedAt    time.Time
	closed         bool
}

type Option func(*Pipeline)

// WithDelay overrides the debounce window.
func WithDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.delay = d }
}

// WithDraftID seeds the pipeline with an already-persisted draft id
// (edit mode). Saves go through the update path from the start.
func WithDraftID(id string) Option {
	return func(p *Pipeline) { p.draftID = id }
}

// WithStatusFunc registers a callback for status transitions.
func WithStatusFunc(f func(Status)) Option {
	return func(p *Pipeline) { p.onStatus = f }
}

// WithCreatedFunc registers a callback fired exactly once, when the
// first successful create assigns the draft its identifier.
func WithCreatedFunc(f func(id string)) Option {
	return func(p *Pipeline) { p.onCreated = f }
}

// WithErrorFunc registers a callback for save failures. Superseded
// saves do not reach it.
func WithErrorFunc(f func(error)) Option {
	return func(p *Pipeline) { p.onError = f }
}

func New(saver Saver, opts ...Option) *Pipeline {
	p := &Pipeline{
		saver:  saver,
		delay:  DefaultDelay,
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schedule restarts the debounce timer with a fresh snapshot of the
// draft. At most one timer is pending at any moment.
func (p *Pipeline) Schedule(draft *memorials.Memorial) {
	snap, err := clone(draft)
	if err != nil {
		p.notifyError(err)
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending = snap
	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(p.delay, func() { p.fire(gen) })
	p.mu.Unlock()
}

// ForceSave bypasses the timer and performs the create-or-update now,
// returning the outcome to the caller. Any pending timer and any
// in-flight save are cancelled first. An unchanged payload is not
// rewritten; the call succeeds with the known id.
func (p *Pipeline) ForceSave(ctx context.Context, draft *memorials.Memorial) (*SaveResult, error) {
	snap, err := clone(draft)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errors.New("pipeline closed")
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pending = nil
	p.gen++
	gen := p.gen
	if p.cancelInFlight != nil {
		p.cancelInFlight()
		p.cancelInFlight = nil
	}
	if snap.ID == "" {
		snap.ID = p.draftID
	}
	canon, err := canonical(snap)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	if canon == p.lastPersisted && p.draftID != "" {
		id := p.draftID
		p.mu.Unlock()
		return &SaveResult{ID: id}, nil
	}
	p.inflightGen = gen
	p.setStatusLocked(StatusSaving)
	p.mu.Unlock()

	res, err := p.saver.Save(ctx, snap)
	return p.finish(gen, canon, res, err)
}

// Status returns the pipeline's current state.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// DraftID returns the persisted identifier, empty before first create.
func (p *Pipeline) DraftID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draftID
}

// LastSavedAt returns when the last successful save finished.
func (p *Pipeline) LastSavedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSavedAt
}

// Close stops the timer and cancels any in-flight save.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancelInFlight != nil {
		p.cancelInFlight()
		p.cancelInFlight = nil
	}
}

func (p *Pipeline) fire(gen uint64) {
	p.mu.Lock()
	if p.closed || gen != p.gen || p.pending == nil {
		// A newer Schedule or a ForceSave took over.
		p.mu.Unlock()
		return
	}
	snap := p.pending
	p.pending = nil
	p.timer = nil
	if snap.ID == "" {
		snap.ID = p.draftID
	}
	canon, err := canonical(snap)
	if err != nil {
		p.mu.Unlock()
		p.notifyError(err)
		return
	}
	if canon == p.lastPersisted {
		// Nothing changed since the last write; state keeps its last
		// terminal value.
		p.mu.Unlock()
		return
	}
	if p.cancelInFlight != nil {
		p.cancelInFlight()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancelInFlight = cancel
	p.inflightGen = gen
	p.setStatusLocked(StatusSaving)
	p.mu.Unlock()

	go func() {
		res, err := p.saver.Save(ctx, snap)
		p.finish(gen, canon, res, err)
	}()
}

// finish applies a save outcome unless the save was superseded while
// in flight. Superseded or context-cancelled saves are swallowed.
func (p *Pipeline) finish(gen uint64, canon string, res *SaveResult, err error) (*SaveResult, error) {
	p.mu.Lock()
	superseded := gen != p.inflightGen || (err != nil && errors.Is(err, context.Canceled))
	if superseded {
		p.mu.Unlock()
		return nil, ErrSuperseded
	}
	p.cancelInFlight = nil

	if err != nil {
		p.setStatusLocked(StatusError)
		p.mu.Unlock()
		p.notifyError(err)
		return nil, err
	}

	p.lastPersisted = canon
	p.lastSavedAt = time.Now()
	firstCreate := res.Created && !p.createdFired
	if res.ID != "" {
		p.draftID = res.ID
	}
	if firstCreate {
		p.createdFired = true
	}
	p.setStatusLocked(StatusSaved)
	p.mu.Unlock()

	if firstCreate && p.onCreated != nil {
		p.onCreated(res.ID)
	}
	return res, nil
}

// setStatusLocked updates the state and invokes the callback in
// transition order. The callback runs under the pipeline mutex and
// must not call back into the pipeline.
func (p *Pipeline) setStatusLocked(s Status) {
	if p.status == s {
		return
	}
	p.status = s
	if p.onStatus != nil {
		p.onStatus(s)
	}
}

func (p *Pipeline) notifyError(err error) {
	if p.onError != nil {
		p.onError(err)
	}
}

// canonical is the stable serialization used to detect unchanged
// payloads. The identifier is excluded so that adopting the id after
// the first create does not look like an edit.
func canonical(d *memorials.Memorial) (string, error) {
	c := *d
	c.ID = ""
	b, err := json.Marshal(&c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func clone(d *memorials.Memorial) (*memorials.Memorial, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var c memorials.Memorial
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ID = d.ID
	c.Password = d.Password
	return &c, nil
}
