package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Drawing struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Snapshot struct {
	ID        string
	DrawingID string
	Version   int
	Elements  json.RawMessage
	CreatedAt time.Time
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password, display_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		u.ID, u.Email, u.Password, u.DisplayName,
	).Scan(&u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", mapError(err))
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`, id)
}

func (s *Store) getUser(ctx context.Context, query, arg string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", mapError(err))
	}
	return u, nil
}

// --- Drawings ---

func (s *Store) CreateDrawing(ctx context.Context, d Drawing) (Drawing, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO drawings (id, name, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		d.ID, d.Name, d.OwnerID,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Drawing{}, fmt.Errorf("create drawing: %w", mapError(err))
	}
	return d, nil
}

func (s *Store) GetDrawing(ctx context.Context, id string) (Drawing, error) {
	var d Drawing
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at, updated_at FROM drawings WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Drawing{}, fmt.Errorf("get drawing: %w", mapError(err))
	}
	return d, nil
}

func (s *Store) ListDrawings(ctx context.Context, ownerID string) ([]Drawing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, owner_id, created_at, updated_at
		 FROM drawings WHERE owner_id = $1
		 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	drawings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Drawing, error) {
		var d Drawing
		err := row.Scan(&d.ID, &d.Name, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	return drawings, nil
}

func (s *Store) DeleteDrawing(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drawings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Snapshots ---

// CreateSnapshot stores the element set of a drawing as its next version and
// bumps the drawing's updated_at, in one transaction.
func (s *Store) CreateSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error) {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO snapshots (id, drawing_id, version, elements)
			 VALUES ($1, $2, COALESCE((SELECT MAX(version) FROM snapshots WHERE drawing_id = $2), 0) + 1, $3)
			 RETURNING version, created_at`,
			snap.ID, snap.DrawingID, snap.Elements,
		).Scan(&snap.Version, &snap.CreatedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE drawings SET updated_at = now() WHERE id = $1`, snap.DrawingID)
		return err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("create snapshot: %w", mapError(err))
	}
	return snap, nil
}

func (s *Store) GetLatestSnapshot(ctx context.Context, drawingID string) (Snapshot, error) {
	var snap Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT id, drawing_id, version, elements, created_at
		 FROM snapshots WHERE drawing_id = $1
		 ORDER BY version DESC LIMIT 1`, drawingID,
	).Scan(&snap.ID, &snap.DrawingID, &snap.Version, &snap.Elements, &snap.CreatedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get latest snapshot: %w", mapError(err))
	}
	return snap, nil
}
