package storage

import "context"

// FeatureRecord представляет сохраненный объект карты.
// Properties и Geometry хранятся как JSON в формате API.
type FeatureRecord struct {
	MapID      string
	ID         string
	Class      string
	Properties []byte // JSON объект properties
	Geometry   []byte // JSON api.Geometry, nil если геометрии нет
	CreatedAt  int64  // мс
	UpdatedAt  int64  // мс, время последнего изменения
	DeletedAt  int64  // мс, 0 = объект не удален
}

// Deleted сообщает, удален ли объект
func (r *FeatureRecord) Deleted() bool {
	return r.DeletedAt != 0
}

// FeatureStorage defines interface for map features persistence
type FeatureStorage interface {
	// SaveFeature creates or replaces a feature record
	SaveFeature(ctx context.Context, rec *FeatureRecord) error

	// GetFeature retrieves a live feature by map and ID
	// Returns ErrFeatureNotFound if feature doesn't exist or is deleted
	GetFeature(ctx context.Context, mapID, id string) (*FeatureRecord, error)

	// FeaturesSince retrieves live features of a map updated after the given timestamp
	// ordered by update time. Returns empty slice if nothing changed.
	FeaturesSince(ctx context.Context, mapID string, since int64) ([]*FeatureRecord, error)

	// MembershipChangedSince reports whether any feature was created or deleted
	// after the given timestamp
	MembershipChangedSince(ctx context.Context, mapID string, since int64) (bool, error)

	// FeatureIDs returns the class -> ids index of live features in creation order
	FeatureIDs(ctx context.Context, mapID string) (map[string][]string, error)

	// DeleteFeature marks feature as deleted (soft delete) with timestamp
	// Returns ErrFeatureNotFound if feature doesn't exist, is deleted or has another class
	DeleteFeature(ctx context.Context, mapID, class, id string, timestamp int64) error

	// LastTimestamp returns the greatest timestamp written so far, 0 for empty storage
	LastTimestamp(ctx context.Context) (int64, error)
}
