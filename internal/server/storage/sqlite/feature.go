package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/topokeeper/internal/server/storage"
)

// SaveFeature creates or replaces a feature record
func (s *Storage) SaveFeature(ctx context.Context, rec *storage.FeatureRecord) error {
	if rec.MapID == "" || rec.ID == "" || rec.Class == "" {
		return fmt.Errorf("%w: map, id and class are required", storage.ErrInvalidFeature)
	}

	query := `
		INSERT INTO features (
			map_id, id, class, properties, geometry,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (map_id, id) DO UPDATE SET
			class = excluded.class,
			properties = excluded.properties,
			geometry = excluded.geometry,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at
	`

	props := rec.Properties
	if len(props) == 0 {
		props = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx, query,
		rec.MapID,
		rec.ID,
		rec.Class,
		string(props),
		nullString(rec.Geometry),
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save feature: %w", err)
	}
	return nil
}

// GetFeature retrieves a live feature by map and ID
func (s *Storage) GetFeature(ctx context.Context, mapID, id string) (*storage.FeatureRecord, error) {
	query := `
		SELECT map_id, id, class, properties, geometry,
		       created_at, updated_at, deleted_at
		FROM features
		WHERE map_id = ? AND id = ? AND deleted_at = 0
	`

	rec, err := scanFeature(s.db.QueryRowContext(ctx, query, mapID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrFeatureNotFound
		}
		return nil, fmt.Errorf("failed to get feature: %w", err)
	}
	return rec, nil
}

// FeaturesSince retrieves live features updated after the given timestamp
func (s *Storage) FeaturesSince(ctx context.Context, mapID string, since int64) (records []*storage.FeatureRecord, err error) {
	query := `
		SELECT map_id, id, class, properties, geometry,
		       created_at, updated_at, deleted_at
		FROM features
		WHERE map_id = ? AND updated_at > ? AND deleted_at = 0
		ORDER BY updated_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, mapID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query features since timestamp: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	records = make([]*storage.FeatureRecord, 0)
	for rows.Next() {
		rec, err := scanFeature(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feature: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return records, nil
}

// MembershipChangedSince reports whether any feature was created or deleted after since
func (s *Storage) MembershipChangedSince(ctx context.Context, mapID string, since int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM features
			WHERE map_id = ? AND (created_at > ? OR deleted_at > ?)
		)
	`

	var changed int
	if err := s.db.QueryRowContext(ctx, query, mapID, since, since).Scan(&changed); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return changed != 0, nil
}

// FeatureIDs returns the class -> ids index of live features
func (s *Storage) FeatureIDs(ctx context.Context, mapID string) (ids map[string][]string, err error) {
	query := `
		SELECT class, id
		FROM features
		WHERE map_id = ? AND deleted_at = 0
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, mapID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature ids: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ids = make(map[string][]string)
	for rows.Next() {
		var class, id string
		if err := rows.Scan(&class, &id); err != nil {
			return nil, fmt.Errorf("failed to scan feature id: %w", err)
		}
		ids[class] = append(ids[class], id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return ids, nil
}

// DeleteFeature marks feature as deleted (soft delete) with timestamp
func (s *Storage) DeleteFeature(ctx context.Context, mapID, class, id string, timestamp int64) error {
	query := `
		UPDATE features
		SET deleted_at = ?, updated_at = ?
		WHERE map_id = ? AND id = ? AND class = ? AND deleted_at = 0
	`

	result, err := s.db.ExecContext(ctx, query, timestamp, timestamp, mapID, id, class)
	if err != nil {
		return fmt.Errorf("failed to delete feature: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrFeatureNotFound
	}
	return nil
}

// LastTimestamp returns the greatest timestamp written so far
func (s *Storage) LastTimestamp(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(MAX(updated_at, deleted_at)), 0) FROM features`

	var ts int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&ts); err != nil {
		return 0, fmt.Errorf("failed to get last timestamp: %w", err)
	}
	return ts, nil
}

// scanner общий интерфейс sql.Row и sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanFeature(row scanner) (*storage.FeatureRecord, error) {
	rec := &storage.FeatureRecord{}
	var (
		props    string
		geometry sql.NullString
	)
	err := row.Scan(
		&rec.MapID,
		&rec.ID,
		&rec.Class,
		&props,
		&geometry,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Properties = []byte(props)
	if geometry.Valid {
		rec.Geometry = []byte(geometry.String)
	}
	return rec, nil
}

func nullString(data []byte) sql.NullString {
	if data == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(data), Valid: true}
}
