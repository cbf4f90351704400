// Package drawing hosts drawing sessions for the HTTP and websocket APIs:
// it owns drawing metadata, keeps one engine per open drawing and persists
// committed element sets as snapshots.
package drawing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/draft/internal/document"
	"github.com/inamate/draft/internal/engine"
	"github.com/inamate/draft/internal/store"
	"github.com/inamate/draft/internal/typeid"
)

var (
	ErrNotFound  = errors.New("drawing not found")
	ErrForbidden = errors.New("forbidden")
)

// Repository is the persistence the service needs.
type Repository interface {
	CreateDrawing(ctx context.Context, d store.Drawing) (store.Drawing, error)
	GetDrawing(ctx context.Context, id string) (store.Drawing, error)
	ListDrawings(ctx context.Context, ownerID string) ([]store.Drawing, error)
	DeleteDrawing(ctx context.Context, id string) error
	CreateSnapshot(ctx context.Context, snap store.Snapshot) (store.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, drawingID string) (store.Snapshot, error)
}

type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Service struct {
	repo      Repository
	newEngine func() *engine.Engine
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session // drawingID -> session
	notify   func(drawingID string, st engine.State)
}

// NewService returns a service that builds session engines with newEngine.
func NewService(repo Repository, newEngine func() *engine.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		newEngine: newEngine,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// OnCommit registers fn to receive the state of a session after every change
// to its committed set. It must be set before sessions are opened.
func (s *Service) OnCommit(fn func(drawingID string, st engine.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

func (s *Service) Create(ctx context.Context, name, ownerID string) (*Drawing, error) {
	d, err := s.repo.CreateDrawing(ctx, store.Drawing{
		ID:      typeid.NewDrawingID(),
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}

	// Seed an empty snapshot so every drawing has a version 1
	_, err = s.repo.CreateSnapshot(ctx, store.Snapshot{
		ID:        typeid.NewSnapshotID(),
		DrawingID: d.ID,
		Elements:  []byte("[]"),
	})
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return toDrawing(d), nil
}

func (s *Service) Get(ctx context.Context, drawingID, userID string) (*Drawing, error) {
	d, err := s.authorize(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}
	return toDrawing(d), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Drawing, error) {
	rows, err := s.repo.ListDrawings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	drawings := make([]Drawing, len(rows))
	for i, d := range rows {
		drawings[i] = *toDrawing(d)
	}
	return drawings, nil
}

func (s *Service) Delete(ctx context.Context, drawingID, userID string) error {
	if _, err := s.authorize(ctx, drawingID, userID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, drawingID)
	s.mu.Unlock()

	if err := s.repo.DeleteDrawing(ctx, drawingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete drawing: %w", err)
	}
	return nil
}

// Open returns the live session of a drawing the user owns, loading it from
// its latest snapshot on first use.
func (s *Service) Open(ctx context.Context, drawingID, userID string) (*Session, error) {
	if _, err := s.authorize(ctx, drawingID, userID); err != nil {
		return nil, err
	}
	return s.session(ctx, drawingID)
}

func (s *Service) session(ctx context.Context, drawingID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[drawingID]; ok {
		return sess, nil
	}

	var els []document.Element
	snap, err := s.repo.GetLatestSnapshot(ctx, drawingID)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load drawing %s: %w", drawingID, err)
	default:
		if els, err = document.UnmarshalSet(snap.Elements); err != nil {
			return nil, fmt.Errorf("decode drawing %s: %w", drawingID, err)
		}
	}

	eng := s.newEngine()
	if err := eng.Load(els); err != nil {
		return nil, fmt.Errorf("load drawing %s: %w", drawingID, err)
	}
	sess := newSession(drawingID, eng, s.notify)
	s.sessions[drawingID] = sess
	s.logger.Info("session opened", "drawing", drawingID, "elements", len(els))
	return sess, nil
}

// Flush saves every session with unsaved commits.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		if err := sess.save(ctx, s.repo); err != nil {
			s.logger.Error("save drawing failed", "drawing", sess.ID(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run flushes dirty sessions every interval until ctx is done, then flushes
// once more.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Flush(ctx)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Flush(flushCtx); err == nil {
				s.logger.Info("all drawings saved")
			}
			return
		}
	}
}

func (s *Service) authorize(ctx context.Context, drawingID, userID string) (store.Drawing, error) {
	if typeid.Validate(drawingID, typeid.PrefixDrawing) != nil {
		return store.Drawing{}, ErrNotFound
	}
	d, err := s.repo.GetDrawing(ctx, drawingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Drawing{}, ErrNotFound
		}
		return store.Drawing{}, fmt.Errorf("get drawing: %w", err)
	}
	if d.OwnerID != userID {
		return store.Drawing{}, ErrForbidden
	}
	return d, nil
}

func toDrawing(d store.Drawing) *Drawing {
	return &Drawing{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
