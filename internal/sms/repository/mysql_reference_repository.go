package repository

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/sms/domain"
)

// MySQLReferenceRepository implements gateway reference persistence for MySQL.
//
// Notification ids are stored as BINARY(16) using uuid.MarshalBinary() and
// uuid.UnmarshalBinary().
type MySQLReferenceRepository struct {
	db *sql.DB
}

// NewMySQLReferenceRepository creates a new MySQL gateway reference repository.
func NewMySQLReferenceRepository(db *sql.DB) *MySQLReferenceRepository {
	return &MySQLReferenceRepository{db: db}
}

// Save inserts the mapping. An existing row for the same reference is compared
// instead of overwritten.
func (m *MySQLReferenceRepository) Save(ctx context.Context, ref *domain.GatewayReference) error {
	id, err := ref.NotificationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal notification id")
	}

	query := `INSERT IGNORE INTO gateway_references (reference, notification_id, created_at) VALUES (?, ?, ?)`

	result, err := m.db.ExecContext(ctx, query, ref.Reference, id, ref.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to save gateway reference")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows > 0 {
		return nil
	}
	return resolveConflict(ctx, m.Get, ref)
}

// Get retrieves the mapping for reference.
func (m *MySQLReferenceRepository) Get(ctx context.Context, reference string) (*domain.GatewayReference, error) {
	query := `SELECT reference, notification_id, created_at FROM gateway_references WHERE reference = ?`

	var ref domain.GatewayReference
	var id []byte
	err := m.db.QueryRowContext(ctx, query, reference).Scan(&ref.Reference, &id, &ref.CreatedAt)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReferenceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get gateway reference")
	}

	if err := ref.NotificationID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal notification id")
	}
	return &ref, nil
}

// DeleteOlderThan removes references created before olderThan. The SQL stores do
// not expire rows on their own, so this runs from the clean-gateway-references
// command. When dryRun is true, returns the count without deleting.
func (m *MySQLReferenceRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	if dryRun {
		query := `SELECT COUNT(*) FROM gateway_references WHERE created_at < ?`
		var count int64
		if err := m.db.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count gateway references")
		}
		return count, nil
	}

	query := `DELETE FROM gateway_references WHERE created_at < ?`
	result, err := m.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete gateway references")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}
