package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
)

type staffOwnedTableModel struct {
	StaffID           string         `db:"staff_id"`
	OwnerID           string         `db:"owner_id"`
	CurrentValue      int64          `db:"current_value"`
	AssignedClass     sql.NullString `db:"assigned_class"`
	AssignedCorpsName sql.NullString `db:"assigned_corps_name"`
	SeasonsCompleted  int            `db:"seasons_completed"`
	PurchasedAt       sql.NullTime   `db:"purchased_at"`
}

func ownedFromRow(row staffOwnedTableModel) staff.Owned {
	owned := staff.Owned{
		StaffID:          row.StaffID,
		OwnerID:          row.OwnerID,
		CurrentValue:     row.CurrentValue,
		SeasonsCompleted: row.SeasonsCompleted,
	}
	if row.PurchasedAt.Valid {
		owned.PurchasedAt = row.PurchasedAt.Time
	}
	if row.AssignedClass.Valid && row.AssignedCorpsName.Valid {
		owned.AssignedTo = &staff.Assignment{
			Class:     gameclass.Class(row.AssignedClass.String),
			CorpsName: row.AssignedCorpsName.String,
		}
	}
	return owned
}

type StaffLedger struct {
	db *sqlx.DB
}

func NewStaffLedger(db *sqlx.DB) *StaffLedger {
	return &StaffLedger{db: db}
}

const staffOwnedColumns = `staff_id, owner_id, current_value, assigned_class, assigned_corps_name, seasons_completed, purchased_at`

func (r *StaffLedger) GetOwned(ctx context.Context, ownerID, staffID string) (staff.Owned, bool, error) {
	query := `SELECT ` + staffOwnedColumns + ` FROM staff_owned WHERE owner_id = $1 AND staff_id = $2`

	var row staffOwnedTableModel
	if err := r.db.GetContext(ctx, &row, query, ownerID, staffID); err != nil {
		if isNotFound(err) {
			return staff.Owned{}, false, nil
		}
		return staff.Owned{}, false, fmt.Errorf("get owned staff: %w", err)
	}
	return ownedFromRow(row), true, nil
}

func (r *StaffLedger) ListOwnedByUser(ctx context.Context, ownerID string) ([]staff.Owned, error) {
	query := `SELECT ` + staffOwnedColumns + ` FROM staff_owned WHERE owner_id = $1 ORDER BY staff_id`

	var rows []staffOwnedTableModel
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("list owned staff: %w", err)
	}

	out := make([]staff.Owned, 0, len(rows))
	for _, row := range rows {
		out = append(out, ownedFromRow(row))
	}
	return out, nil
}

func (r *StaffLedger) Create(ctx context.Context, owned staff.Owned) error {
	const query = `
		INSERT INTO staff_owned (staff_id, owner_id, current_value, seasons_completed, purchased_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		owned.StaffID, owned.OwnerID, owned.CurrentValue, owned.SeasonsCompleted, owned.PurchasedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: staff=%s owner=%s", staff.ErrAlreadyOwned, owned.StaffID, owned.OwnerID)
		}
		return fmt.Errorf("create staff ownership: %w", err)
	}
	return nil
}

func (r *StaffLedger) SetAssignment(ctx context.Context, ownerID, staffID string, assignment *staff.Assignment) error {
	const query = `
		UPDATE staff_owned
		SET assigned_class = $3, assigned_corps_name = $4
		WHERE owner_id = $1 AND staff_id = $2`

	var class, corpsName any
	if assignment != nil {
		class = assignment.Class.String()
		corpsName = assignment.CorpsName
	}

	result, err := r.db.ExecContext(ctx, query, ownerID, staffID, class, corpsName)
	if err != nil {
		return fmt.Errorf("set staff assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set staff assignment rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: staff=%s owner=%s", staff.ErrNotOwned, staffID, ownerID)
	}
	return nil
}

// Transfer moves the row between owners in one transaction, dropping any
// assignment on the way.
func (r *StaffLedger) Transfer(ctx context.Context, staffID, fromID, toID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const deleteQuery = `
		DELETE FROM staff_owned
		WHERE owner_id = $1 AND staff_id = $2
		RETURNING current_value, seasons_completed, purchased_at`

	var row struct {
		CurrentValue     int64        `db:"current_value"`
		SeasonsCompleted int          `db:"seasons_completed"`
		PurchasedAt      sql.NullTime `db:"purchased_at"`
	}
	if err := tx.GetContext(ctx, &row, deleteQuery, fromID, staffID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: staff=%s owner=%s", staff.ErrNotOwned, staffID, fromID)
		}
		return fmt.Errorf("release staff from seller: %w", err)
	}

	const insertQuery = `
		INSERT INTO staff_owned (staff_id, owner_id, current_value, seasons_completed, purchased_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.ExecContext(ctx, insertQuery,
		staffID, toID, row.CurrentValue, row.SeasonsCompleted, row.PurchasedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: staff=%s owner=%s", staff.ErrAlreadyOwned, staffID, toID)
		}
		return fmt.Errorf("grant staff to buyer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	return nil
}

func (r *StaffLedger) AssignmentCounts(ctx context.Context, ownerID string) (map[gameclass.Class]int, error) {
	const query = `
		SELECT assigned_class, COUNT(*) AS total
		FROM staff_owned
		WHERE owner_id = $1 AND assigned_class IS NOT NULL
		GROUP BY assigned_class`

	var rows []struct {
		AssignedClass string `db:"assigned_class"`
		Total         int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("count staff assignments: %w", err)
	}

	counts := make(map[gameclass.Class]int, len(rows))
	for _, row := range rows {
		counts[gameclass.Class(row.AssignedClass)] = row.Total
	}
	return counts, nil
}
