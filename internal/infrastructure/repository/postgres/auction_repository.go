package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fieldpass/fantasy-corps/internal/domain/auction"
)

type auctionTableModel struct {
	ID              string         `db:"id"`
	StaffID         string         `db:"staff_id"`
	SellerID        string         `db:"seller_id"`
	StartingPrice   int64          `db:"starting_price"`
	CurrentBid      sql.NullInt64  `db:"current_bid"`
	CurrentBidderID sql.NullString `db:"current_bidder_id"`
	BidHistory      []byte         `db:"bid_history"`
	EndsAt          time.Time      `db:"ends_at"`
	Status          string         `db:"status"`
	WinnerID        sql.NullString `db:"winner_id"`
	SalePrice       sql.NullInt64  `db:"sale_price"`
	Version         int64          `db:"version"`
	CreatedAt       time.Time      `db:"created_at"`
}

type bidPayload struct {
	BidderID string    `json:"bidderId"`
	Amount   int64     `json:"amount"`
	PlacedAt time.Time `json:"placedAt"`
}

func auctionFromRow(row auctionTableModel) (auction.Auction, error) {
	a := auction.Auction{
		ID:            row.ID,
		StaffID:       row.StaffID,
		SellerID:      row.SellerID,
		StartingPrice: row.StartingPrice,
		EndsAt:        row.EndsAt,
		Status:        auction.Status(row.Status),
		Version:       row.Version,
		CreatedAt:     row.CreatedAt,
	}
	if row.CurrentBid.Valid {
		v := row.CurrentBid.Int64
		a.CurrentBid = &v
	}
	if row.CurrentBidderID.Valid {
		v := row.CurrentBidderID.String
		a.CurrentBidderID = &v
	}
	if row.WinnerID.Valid {
		v := row.WinnerID.String
		a.WinnerID = &v
	}
	if row.SalePrice.Valid {
		v := row.SalePrice.Int64
		a.SalePrice = &v
	}

	if len(row.BidHistory) > 0 {
		var payload []bidPayload
		if err := sonic.Unmarshal(row.BidHistory, &payload); err != nil {
			return auction.Auction{}, fmt.Errorf("decode bid history auction=%s: %w", row.ID, err)
		}
		a.BidHistory = make([]auction.Bid, 0, len(payload))
		for _, bid := range payload {
			a.BidHistory = append(a.BidHistory, auction.Bid{
				BidderID: bid.BidderID,
				Amount:   bid.Amount,
				PlacedAt: bid.PlacedAt,
			})
		}
	}
	return a, nil
}

func encodeBidHistory(bids []auction.Bid) ([]byte, error) {
	payload := make([]bidPayload, 0, len(bids))
	for _, bid := range bids {
		payload = append(payload, bidPayload{
			BidderID: bid.BidderID,
			Amount:   bid.Amount,
			PlacedAt: bid.PlacedAt,
		})
	}
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode bid history: %w", err)
	}
	return encoded, nil
}

type AuctionRepository struct {
	db *sqlx.DB
}

func NewAuctionRepository(db *sqlx.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

const auctionColumns = `id, staff_id, seller_id, starting_price, current_bid, current_bidder_id, bid_history, ends_at, status, winner_id, sale_price, version, created_at`

func (r *AuctionRepository) Create(ctx context.Context, a auction.Auction) error {
	history, err := encodeBidHistory(a.BidHistory)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO auctions (id, staff_id, seller_id, starting_price, bid_history, ends_at, status, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8)`

	if _, err := r.db.ExecContext(ctx, query,
		a.ID, a.StaffID, a.SellerID, a.StartingPrice, history, a.EndsAt, string(a.Status), a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("auction already open for staff %s: %w", a.StaffID, err)
		}
		return fmt.Errorf("create auction: %w", err)
	}
	return nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, auctionID string) (auction.Auction, bool, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`

	var row auctionTableModel
	if err := r.db.GetContext(ctx, &row, query, auctionID); err != nil {
		if isNotFound(err) {
			return auction.Auction{}, false, nil
		}
		return auction.Auction{}, false, fmt.Errorf("get auction: %w", err)
	}

	a, err := auctionFromRow(row)
	if err != nil {
		return auction.Auction{}, false, err
	}
	return a, true, nil
}

func (r *AuctionRepository) GetOpenByStaff(ctx context.Context, sellerID, staffID string) (auction.Auction, bool, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE seller_id = $1 AND staff_id = $2 AND status = 'open'`

	var row auctionTableModel
	if err := r.db.GetContext(ctx, &row, query, sellerID, staffID); err != nil {
		if isNotFound(err) {
			return auction.Auction{}, false, nil
		}
		return auction.Auction{}, false, fmt.Errorf("get open auction by staff: %w", err)
	}

	a, err := auctionFromRow(row)
	if err != nil {
		return auction.Auction{}, false, err
	}
	return a, true, nil
}

func (r *AuctionRepository) ListOpen(ctx context.Context, staffIDs []string) ([]auction.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE status = 'open' ORDER BY ends_at, id`
	args := []any{}
	if staffIDs != nil {
		query = `SELECT ` + auctionColumns + ` FROM auctions WHERE status = 'open' AND staff_id = ANY($1) ORDER BY ends_at, id`
		args = append(args, pq.Array(staffIDs))
	}

	var rows []auctionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list open auctions: %w", err)
	}
	return auctionsFromRows(rows)
}

func (r *AuctionRepository) ListExpired(ctx context.Context, now time.Time) ([]auction.Auction, error) {
	// Ended auctions without bids resolved unsold and are not retried.
	query := `SELECT ` + auctionColumns + ` FROM auctions
		WHERE (status = 'open' OR (status = 'ended' AND jsonb_array_length(bid_history) > 0))
			AND ends_at <= $1
		ORDER BY ends_at, id`

	var rows []auctionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, now); err != nil {
		return nil, fmt.Errorf("list expired auctions: %w", err)
	}
	return auctionsFromRows(rows)
}

// Update is a compare-and-swap on version: the write only lands when the
// stored version still matches, and the version advances with it.
func (r *AuctionRepository) Update(ctx context.Context, a auction.Auction) error {
	history, err := encodeBidHistory(a.BidHistory)
	if err != nil {
		return err
	}

	const query = `
		UPDATE auctions
		SET current_bid = $2, current_bidder_id = $3, bid_history = $4,
		    status = $5, winner_id = $6, sale_price = $7, version = version + 1
		WHERE id = $1 AND version = $8`

	result, err := r.db.ExecContext(ctx, query,
		a.ID, a.CurrentBid, a.CurrentBidderID, history,
		string(a.Status), a.WinnerID, a.SalePrice, a.Version)
	if err != nil {
		return fmt.Errorf("update auction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update auction rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		const existsQuery = `SELECT EXISTS (SELECT 1 FROM auctions WHERE id = $1)`
		if err := r.db.GetContext(ctx, &exists, existsQuery, a.ID); err != nil {
			return fmt.Errorf("check auction exists: %w", err)
		}
		if !exists {
			return fmt.Errorf("auction not found: %s", a.ID)
		}
		return fmt.Errorf("%w: auction=%s", auction.ErrVersionConflict, a.ID)
	}
	return nil
}

func auctionsFromRows(rows []auctionTableModel) ([]auction.Auction, error) {
	out := make([]auction.Auction, 0, len(rows))
	for _, row := range rows {
		a, err := auctionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
