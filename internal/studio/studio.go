// Package studio is the memorial creation engine: it owns the single
// in-memory draft for an editing session and fans edits out to
// validation, the autosave pipeline, and the preview refresher.
package studio

import (
	"context"
	"sync"
	"time"

	"memorial-app/internal/domain/memorials"
	"memorial-app/internal/studio/autosave"
	"memorial-app/internal/studio/preview"

	"github.com/google/uuid"
)

// fieldOrder is the form's top-to-bottom field order, used to pick the
// first errored field to scroll to after a failed publish.
var fieldOrder = []string{
	"firstName", "middleName", "lastName", "nickname",
	"birthDate", "deathDate",
	"title", "headline", "obituary", "biography", "serviceDetails",
	"privacy", "password", "customUrl",
}

// PublishResult is the orchestrator's answer to a publish attempt. It
// never touches payment state itself; a valid draft is force-saved and
// handed to the checkout flow by the caller.
type PublishResult struct {
	Ready   bool
	DraftID string
	// Errors and FirstErrorField are set when validation failed.
	Errors          map[string]string
	FirstErrorField string
}

type Studio struct {
	mu sync.Mutex

	sessionID string
	mode      Mode
	draft     *memorials.Memorial
	errors    map[string]string
	activeTab Tab

	pipeline  *autosave.Pipeline
	refresher *preview.Refresher

	isSaving  bool
	hasError  bool
	now       func() time.Time
	saveDelay time.Duration
}

type Option func(*Studio)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Studio) { s.now = now }
}

// WithSaveDelay overrides the autosave debounce window.
func WithSaveDelay(d time.Duration) Option {
	return func(s *Studio) { s.saveDelay = d }
}

// New builds a studio session. A nil existing draft starts create
// mode; otherwise the loaded draft is edited in place.
func New(saver autosave.Saver, existing *memorials.Memorial, onPreview func(*preview.Page), opts ...Option) *Studio {
	s := &Studio{
		sessionID: uuid.NewString(),
		mode:      ModeCreate,
		draft:     &memorials.Memorial{Privacy: memorials.PrivacyPublic},
		errors:    map[string]string{},
		activeTab: TabEdit,
		now:       time.Now,
	}
	if existing != nil {
		s.mode = ModeEdit
		s.draft = existing
	}
	for _, opt := range opts {
		opt(s)
	}

	pipeOpts := []autosave.Option{
		autosave.WithStatusFunc(s.onSaveStatus),
		autosave.WithCreatedFunc(s.onCreated),
	}
	if existing != nil {
		pipeOpts = append(pipeOpts, autosave.WithDraftID(existing.ID))
	}
	if s.saveDelay > 0 {
		pipeOpts = append(pipeOpts, autosave.WithDelay(s.saveDelay))
	}
	s.pipeline = autosave.New(saver, pipeOpts...)

	if onPreview != nil {
		s.refresher = preview.NewRefresher(preview.DelayDesktop, onPreview)
	}
	return s
}

// SessionID identifies this editing session; it is never persisted.
func (s *Studio) SessionID() string { return s.sessionID }

func (s *Studio) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Studio) ActiveTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

func (s *Studio) SetActiveTab(tab Tab) {
	s.mu.Lock()
	s.activeTab = tab
	s.mu.Unlock()
}

// SetTheme forwards the client-local theme preference to the preview
// tier. It does not touch the draft, so it never triggers autosave.
func (s *Studio) SetTheme(theme preview.Theme) {
	if s.refresher != nil {
		s.refresher.SetTheme(theme)
	}
}

// Draft returns a snapshot copy of the current draft.
func (s *Studio) Draft() memorials.Memorial {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.draft
}

// Errors returns the current validation error map.
func (s *Studio) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// OnFieldChange merges one field edit into the draft, optimistically
// clears that field's error, and schedules both debounce tiers. Full
// re-validation happens at publish time.
func (s *Studio) OnFieldChange(field, value string) error {
	s.mu.Lock()
	if err := memorials.ApplyField(s.draft, field, value); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.errors, field)
	snap := *s.draft
	s.mu.Unlock()
	s.fanOut(&snap)
	return nil
}

// OnBulkUpdate merges several fields at once, e.g. after a media
// upload completes, with the same downstream effects as a single edit.
func (s *Studio) OnBulkUpdate(partial map[string]string) error {
	s.mu.Lock()
	for field, value := range partial {
		if err := memorials.ApplyField(s.draft, field, value); err != nil {
			s.mu.Unlock()
			return err
		}
		delete(s.errors, field)
	}
	snap := *s.draft
	s.mu.Unlock()
	s.fanOut(&snap)
	return nil
}

// OnPublish runs full validation. When invalid, all errors surface,
// the tabbed layout snaps back to the edit tab, and the first errored
// field in form order is reported for scrolling. When valid, the draft
// is force-saved so publish never races the debounce window.
func (s *Studio) OnPublish(ctx context.Context) (*PublishResult, error) {
	s.mu.Lock()
	res := memorials.Validate(s.draft, s.now())
	if !res.Valid {
		s.errors = res.Errors
		s.activeTab = TabEdit
		first := firstErroredField(res.Errors)
		s.mu.Unlock()
		return &PublishResult{Ready: false, Errors: res.Errors, FirstErrorField: first}, nil
	}
	snap := *s.draft
	s.mu.Unlock()

	saved, err := s.pipeline.ForceSave(ctx, &snap)
	if err != nil {
		return nil, err
	}
	return &PublishResult{Ready: true, DraftID: saved.ID}, nil
}

// SaveDraft is the explicit "save as draft" action: an immediate save
// that bypasses the debounce window.
func (s *Studio) SaveDraft(ctx context.Context) (*autosave.SaveResult, error) {
	s.mu.Lock()
	snap := *s.draft
	s.mu.Unlock()
	return s.pipeline.ForceSave(ctx, &snap)
}

// StatusText renders the current save indicator.
func (s *Studio) StatusText() string {
	s.mu.Lock()
	isSaving, hasError, mode := s.isSaving, s.hasError, s.mode
	s.mu.Unlock()
	return StatusText(isSaving, s.pipeline.LastSavedAt(), hasError, mode, s.now())
}

// Close releases both debounce tiers.
func (s *Studio) Close() {
	s.pipeline.Close()
	if s.refresher != nil {
		s.refresher.Close()
	}
}

// fanOut hands the snapshot to both debounce tiers. Never called with
// s.mu held: the pipeline's status callback takes s.mu from under the
// pipeline's own lock, so holding s.mu here would invert lock order.
func (s *Studio) fanOut(snap *memorials.Memorial) {
	s.pipeline.Schedule(snap)
	if s.refresher != nil {
		s.refresher.Schedule(snap)
	}
}

// onSaveStatus runs inside the pipeline's mutex; it only records the
// flags used by the status display.
func (s *Studio) onSaveStatus(st autosave.Status) {
	s.mu.Lock()
	s.isSaving = st == autosave.StatusSaving
	s.hasError = st == autosave.StatusError
	s.mu.Unlock()
}

// onCreated adopts the server-assigned identifier after the first
// successful create, silently switching the session to edit mode.
func (s *Studio) onCreated(id string) {
	s.mu.Lock()
	s.draft.ID = id
	s.mode = ModeEdit
	s.mu.Unlock()
}

func firstErroredField(errs map[string]string) string {
	for _, f := range fieldOrder {
		if _, ok := errs[f]; ok {
			return f
		}
	}
	return ""
}
