package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"memorial-app/internal/domain/memorials"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSaver records every save it is asked to perform. An optional
// hold channel keeps the first save in flight until released or
// cancelled; later saves run straight through.
type fakeSaver struct {
	mu    sync.Mutex
	saves []*memorials.Memorial
	hold  chan struct{}
	err   error
}

func (f *fakeSaver) Save(ctx context.Context, draft *memorials.Memorial) (*SaveResult, error) {
	f.mu.Lock()
	hold := f.hold
	f.hold = nil
	f.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.saves = append(f.saves, draft)
	if draft.ID != "" {
		return &SaveResult{ID: draft.ID}, nil
	}
	return &SaveResult{ID: uuid.NewString(), Created: true}, nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeSaver) last() *memorials.Memorial {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSchedule_OnlyLastSnapshotFires(t *testing.T) {
	t.Parallel()

	saver := &fakeSaver{}
	p := New(saver, WithDelay(40*time.Millisecond))
	defer p.Close()

	for _, name := range []string{"J", "Jo", "Joh", "John"} {
		p.Schedule(&memorials.Memorial{FirstName: name})
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, func() bool { return saver.count() == 1 })
	assert.Equal(t, "John", saver.last().FirstName)

	// No further writes once the window is quiet.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}

func TestSchedule_IdenticalPayloadWritesOnce(t *testing.T) {
	t.Parallel()

	saver := &fakeSaver{}
	p := New(saver, WithDelay(20*time.Millisecond))
	defer p.Close()

	draft := &memorials.Memorial{FirstName: "John", LastName: "Doe"}
	p.Schedule(draft)
	waitFor(t, func() bool { return saver.count() == 1 })
	waitFor(t, func() bool { return p.Status() == StatusSaved })

	// Same content again: the comparison against the last persisted
	// serialization suppresses the write and the state stays saved.
	p.Schedule(&memorials.Memorial{FirstName: "John", LastName: "Doe"})
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
	assert.Equal(t, StatusSaved, p.Status())
}

func TestSchedule_SupersessionAbortsInFlightSave(t *testing.T) {
	t.Parallel()

	hold := make(chan struct{})
	saver := &fakeSaver{hold: hold}
	p := New(saver, WithDelay(10*time.Millisecond))
	defer p.Close()

	p.Schedule(&memorials.Memorial{FirstName: "A"})
	waitFor(t, func() bool { return p.Status() == StatusSaving })

	// B arrives while A is still in flight; A's request gets its
	// context cancelled and B becomes the one persisted write.
	p.Schedule(&memorials.Memorial{FirstName: "B"})
	waitFor(t, func() bool { return saver.count() == 1 })
	close(hold)

	assert.Equal(t, "B", saver.last().FirstName)
	waitFor(t, func() bool { return p.Status() == StatusSaved })

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, saver.count(), "aborted save must not be persisted")
	assert.NotEqual(t, StatusError, p.Status(), "a superseded save is not an error")
}

func TestSchedule_FirstCreateSurfacesIDOnce(t *testing.T) {
	t.Parallel()

	saver := &fakeSaver{}
	var mu sync.Mutex
	var created []string
	p := New(saver,
		WithDelay(10*time.Millisecond),
		WithCreatedFunc(func(id string) {
			mu.Lock()
			created = append(created, id)
			mu.Unlock()
		}),
	)
	defer p.Close()

	p.Schedule(&memorials.Memorial{FirstName: "John"})
	waitFor(t, func() bool { return p.Status() == StatusSaved })

	mu.Lock()
	require.Len(t, created, 1)
	id := created[0]
	mu.Unlock()
	assert.Equal(t, id, p.DraftID())

	// The next save goes through the update path with the known id,
	// and the created callback does not fire again.
	p.Schedule(&memorials.Memorial{FirstName: "Johnny"})
	waitFor(t, func() bool { return saver.count() == 2 })
	assert.Equal(t, id, saver.last().ID)

	mu.Lock()
	assert.Len(t, created, 1)
	mu.Unlock()
}

func TestSchedule_FailureSetsErrorAndKeepsEdits(t *testing.T) {
	t.Parallel()

	saver := &fakeSaver{err: errors.New("boom")}
	var mu sync.Mutex
	var surfaced []error
	p := New(saver,
		WithDelay(10*time.Millisecond),
		WithErrorFunc(func(err error) {
			mu.Lock()
			surfaced = append(surfaced, err)
			mu.Unlock()
		}),
	)
	defer p.Close()

	draft := &memorials.Memorial{FirstName: "John"}
	p.Schedule(draft)
	waitFor(t, func() bool { return p.Status() == StatusError })

	mu.Lock()
	require.Len(t, surfaced, 1)
	mu.Unlock()
	assert.Equal(t, "John", draft.FirstName, "in-memory edits survive a failed save")

	// Recovery: the next edit retries and reaches saved.
	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()
	p.Schedule(&memorials.Memorial{FirstName: "John", LastName: "Doe"})
	waitFor(t, func() bool { return p.Status() == StatusSaved })
}

func TestForceSave_BypassesTimer(t *testing.T) {
	t.Parallel()

	saver := &fakeSaver{}
	p := New(saver, WithDelay(time.Hour))
	defer p.Close()

	p.Schedule(&memorials.Memorial{FirstName: "stale"})

	res, err := p.ForceSave(context.Background(), &memorials.Memorial{FirstName: "John"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.True(t, res.Created)
	assert.Equal(t, 1, saver.count())
	assert.Equal(t, "John", saver.last().FirstName)
	assert.Equal(t, StatusSaved, p.Status())

	// The hour-long timer was cancelled along the way.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}

func TestForceSave_UnchangedPayloadIsNoOp(t *testing.T) {
	t.Parallel()

	saver := &fakeSaver{}
	p := New(saver, WithDelay(10*time.Millisecond))
	defer p.Close()

	draft := &memorials.Memorial{FirstName: "John"}
	res, err := p.ForceSave(context.Background(), draft)
	require.NoError(t, err)

	draft.ID = res.ID
	again, err := p.ForceSave(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, res.ID, again.ID)
	assert.Equal(t, 1, saver.count())
}

func TestClose_StopsPendingWork(t *testing.T) {
	t.Parallel()

	saver := &fakeSaver{}
	p := New(saver, WithDelay(20*time.Millisecond))
	p.Schedule(&memorials.Memorial{FirstName: "John"})
	p.Close()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, saver.count())
}
