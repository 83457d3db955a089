package season

import "context"

// Schedule is the season/schedule service boundary. It supplies the current
// scoring period identifier and how many whole weeks remain in the season.
type Schedule interface {
	CurrentPeriod(ctx context.Context) (string, error)
	WeeksRemaining(ctx context.Context) (int, error)
}
