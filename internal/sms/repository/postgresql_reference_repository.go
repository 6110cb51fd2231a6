package repository

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/sms/domain"
)

// PostgreSQLReferenceRepository implements gateway reference persistence for PostgreSQL.
//
// Database schema requirements:
//   - reference: TEXT PRIMARY KEY
//   - notification_id: UUID
//   - created_at: TIMESTAMP WITH TIME ZONE
type PostgreSQLReferenceRepository struct {
	db *sql.DB
}

// NewPostgreSQLReferenceRepository creates a new PostgreSQL gateway reference repository.
func NewPostgreSQLReferenceRepository(db *sql.DB) *PostgreSQLReferenceRepository {
	return &PostgreSQLReferenceRepository{db: db}
}

// Save inserts the mapping. An existing row for the same reference is compared
// instead of overwritten.
func (p *PostgreSQLReferenceRepository) Save(ctx context.Context, ref *domain.GatewayReference) error {
	query := `INSERT INTO gateway_references (reference, notification_id, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (reference) DO NOTHING`

	result, err := p.db.ExecContext(ctx, query, ref.Reference, ref.NotificationID, ref.CreatedAt)
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
	return resolveConflict(ctx, p.Get, ref)
}

// Get retrieves the mapping for reference.
func (p *PostgreSQLReferenceRepository) Get(ctx context.Context, reference string) (*domain.GatewayReference, error) {
	query := `SELECT reference, notification_id, created_at FROM gateway_references WHERE reference = $1`

	var ref domain.GatewayReference
	err := p.db.QueryRowContext(ctx, query, reference).Scan(&ref.Reference, &ref.NotificationID, &ref.CreatedAt)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReferenceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get gateway reference")
	}
	return &ref, nil
}

// DeleteOlderThan removes references created before olderThan. The SQL stores do
// not expire rows on their own, so this runs from the clean-gateway-references
// command. When dryRun is true, returns the count without deleting.
func (p *PostgreSQLReferenceRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	if dryRun {
		query := `SELECT COUNT(*) FROM gateway_references WHERE created_at < $1`
		var count int64
		if err := p.db.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count gateway references")
		}
		return count, nil
	}

	query := `DELETE FROM gateway_references WHERE created_at < $1`
	result, err := p.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete gateway references")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}
