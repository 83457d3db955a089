package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
)

type profileTableModel struct {
	UserID    string `db:"user_id"`
	XP        int64  `db:"xp"`
	CorpsCoin int64  `db:"corps_coin"`
}

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.Profile, bool, error) {
	const query = `SELECT user_id, xp, corps_coin FROM profiles WHERE user_id = $1`

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}

	const unlockQuery = `SELECT class FROM profile_class_unlocks WHERE user_id = $1`
	var classes []string
	if err := r.db.SelectContext(ctx, &classes, unlockQuery, userID); err != nil {
		return profile.Profile{}, false, fmt.Errorf("get profile unlocks: %w", err)
	}

	unlocked := make(map[gameclass.Class]struct{}, len(classes))
	for _, name := range classes {
		unlocked[gameclass.Class(name)] = struct{}{}
	}

	return profile.Profile{
		UserID:          row.UserID,
		XP:              row.XP,
		CorpsCoin:       row.CorpsCoin,
		UnlockedClasses: unlocked,
	}, true, nil
}

// AdjustBalance applies the delta in a single guarded UPDATE so concurrent
// debits serialize on the row and can never take the balance below zero.
func (r *ProfileRepository) AdjustBalance(ctx context.Context, userID string, delta int64) error {
	const query = `
		UPDATE profiles
		SET corps_coin = corps_coin + $2, updated_at = now()
		WHERE user_id = $1 AND corps_coin + $2 >= 0`

	result, err := r.db.ExecContext(ctx, query, userID, delta)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust balance rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		const existsQuery = `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`
		if err := r.db.GetContext(ctx, &exists, existsQuery, userID); err != nil {
			return fmt.Errorf("check profile exists: %w", err)
		}
		if !exists {
			return fmt.Errorf("profile not found: %s", userID)
		}
		return fmt.Errorf("%w: user=%s delta=%d", profile.ErrInsufficientFunds, userID, delta)
	}
	return nil
}

func (r *ProfileRepository) UnlockClass(ctx context.Context, userID string, class gameclass.Class) error {
	const query = `
		INSERT INTO profile_class_unlocks (user_id, class)
		VALUES ($1, $2)
		ON CONFLICT (user_id, class) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, class.String()); err != nil {
		return fmt.Errorf("unlock class: %w", err)
	}
	return nil
}
