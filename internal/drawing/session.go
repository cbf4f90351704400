package drawing

import (
	"context"
	"fmt"
	"sync"

	"github.com/inamate/draft/internal/command"
	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/engine"
	"github.com/inamate/draft/internal/snap"
	"github.com/inamate/draft/internal/store"
	"github.com/inamate/draft/internal/tools"
	"github.com/inamate/draft/internal/typeid"
)

// Session is the live editing state of one drawing. Every call is
// serialised by the session mutex, which makes it the drawing's single
// dispatch point.
type Session struct {
	id     string
	mu     sync.Mutex
	engine *engine.Engine
	saved  uint64 // engine revision last persisted

	notify func(drawingID string, st engine.State)
}

func newSession(id string, eng *engine.Engine, notify func(string, engine.State)) *Session {
	return &Session{id: id, engine: eng, saved: eng.Revision(), notify: notify}
}

func (s *Session) ID() string { return s.id }

// mutate runs fn under the lock and broadcasts the new state when the
// committed set changed. notify runs under the lock too so listeners see
// revisions in order; it must not block or call back into the session.
func (s *Session) mutate(fn func(e *engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.engine.Revision()
	fn(s.engine)
	if s.engine.Revision() != before && s.notify != nil {
		s.notify(s.id, s.engine.State())
	}
}

func (s *Session) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

func (s *Session) Render() []engine.DrawCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Render()
}

func (s *Session) Preview() tools.Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Preview()
}

func (s *Session) HandleEvent(ev tools.Event) engine.Update {
	var u engine.Update
	s.mutate(func(e *engine.Engine) { u = e.HandleEvent(ev) })
	return u
}

func (s *Session) Execute(cmds []command.Command) command.Result {
	var res command.Result
	s.mutate(func(e *engine.Engine) { res = e.Execute(cmds) })
	return res
}

func (s *Session) Undo() bool {
	var ok bool
	s.mutate(func(e *engine.Engine) { ok = e.Undo() })
	return ok
}

func (s *Session) Redo() bool {
	var ok bool
	s.mutate(func(e *engine.Engine) { ok = e.Redo() })
	return ok
}

func (s *Session) DeleteSelection() error {
	var err error
	s.mutate(func(e *engine.Engine) { err = e.DeleteSelection() })
	return err
}

func (s *Session) SetTool(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SetTool(name)
}

func (s *Session) SetSelection(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetSelection(ids)
	return s.engine.Selection().IDs()
}

func (s *Session) SetSnap(opts snap.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetSnap(opts)
}

// Dirty reports whether there are commits not yet saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Revision() != s.saved
}

// save writes the committed set as a new snapshot when it changed since the
// last save. The engine stays usable while the write is in flight.
func (s *Session) save(ctx context.Context, repo Repository) error {
	s.mu.Lock()
	rev := s.engine.Revision()
	if rev == s.saved {
		s.mu.Unlock()
		return nil
	}
	data, err := document.MarshalSet(s.engine.Elements())
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal drawing %s: %w", s.id, err)
	}

	_, err = repo.CreateSnapshot(ctx, store.Snapshot{
		ID:        typeid.NewSnapshotID(),
		DrawingID: s.id,
		Elements:  data,
	})
	if err != nil {
		return fmt.Errorf("save drawing %s: %w", s.id, err)
	}

	s.mu.Lock()
	s.saved = rev
	s.mu.Unlock()
	return nil
}
