package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/roster"
)

type lineupClaimTableModel struct {
	Period      string    `db:"period"`
	UserID      string    `db:"user_id"`
	Class       string    `db:"class"`
	Fingerprint string    `db:"fingerprint"`
	TotalValue  int64     `db:"total_value"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func claimFromRow(row lineupClaimTableModel) roster.Claim {
	return roster.Claim{
		UserID:      row.UserID,
		Class:       gameclass.Class(row.Class),
		Period:      row.Period,
		Fingerprint: row.Fingerprint,
		TotalValue:  row.TotalValue,
		SubmittedAt: row.SubmittedAt,
	}
}

type LineupClaimRepository struct {
	db *sqlx.DB
}

func NewLineupClaimRepository(db *sqlx.DB) *LineupClaimRepository {
	return &LineupClaimRepository{db: db}
}

const lineupClaimColumns = `period, user_id, class, fingerprint, total_value, submitted_at`

func (r *LineupClaimRepository) GetByFingerprint(ctx context.Context, period, fingerprint string) (roster.Claim, bool, error) {
	query := `SELECT ` + lineupClaimColumns + ` FROM lineup_claims WHERE period = $1 AND fingerprint = $2`

	var row lineupClaimTableModel
	if err := r.db.GetContext(ctx, &row, query, period, fingerprint); err != nil {
		if isNotFound(err) {
			return roster.Claim{}, false, nil
		}
		return roster.Claim{}, false, fmt.Errorf("get claim by fingerprint: %w", err)
	}
	return claimFromRow(row), true, nil
}

func (r *LineupClaimRepository) GetByUser(ctx context.Context, period, userID string) (roster.Claim, bool, error) {
	query := `SELECT ` + lineupClaimColumns + ` FROM lineup_claims WHERE period = $1 AND user_id = $2`

	var row lineupClaimTableModel
	if err := r.db.GetContext(ctx, &row, query, period, userID); err != nil {
		if isNotFound(err) {
			return roster.Claim{}, false, nil
		}
		return roster.Claim{}, false, fmt.Errorf("get claim by user: %w", err)
	}
	return claimFromRow(row), true, nil
}

func (r *LineupClaimRepository) CountSubmissions(ctx context.Context, period, userID string) (int, error) {
	const query = `
		SELECT COALESCE(MAX(submission_count), 0)
		FROM lineup_claims
		WHERE period = $1 AND user_id = $2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, period, userID); err != nil {
		return 0, fmt.Errorf("count lineup submissions: %w", err)
	}
	return count, nil
}

// Upsert replaces the user's claim for the period. The upsert releases the
// superseded fingerprint implicitly by overwriting it; the period+fingerprint
// unique constraint keeps two users from holding the same lineup.
func (r *LineupClaimRepository) Upsert(ctx context.Context, claim roster.Claim) error {
	const query = `
		INSERT INTO lineup_claims (period, user_id, class, fingerprint, total_value, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT lineup_claims_user_period DO UPDATE
		SET class = EXCLUDED.class,
		    fingerprint = EXCLUDED.fingerprint,
		    total_value = EXCLUDED.total_value,
		    submitted_at = EXCLUDED.submitted_at,
		    submission_count = lineup_claims.submission_count + 1`

	if _, err := r.db.ExecContext(ctx, query,
		claim.Period, claim.UserID, claim.Class.String(), claim.Fingerprint, claim.TotalValue, claim.SubmittedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: fingerprint=%s", roster.ErrDuplicateLineupClaimed, claim.Fingerprint)
		}
		return fmt.Errorf("upsert lineup claim: %w", err)
	}
	return nil
}
