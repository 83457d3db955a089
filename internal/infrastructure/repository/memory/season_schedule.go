package memory

import (
	"context"
	"sync"
)

// SeasonSchedule is a static season.Schedule for local runs and tests.
type SeasonSchedule struct {
	mu             sync.RWMutex
	period         string
	weeksRemaining int
}

func NewSeasonSchedule(period string, weeksRemaining int) *SeasonSchedule {
	return &SeasonSchedule{period: period, weeksRemaining: weeksRemaining}
}

func (s *SeasonSchedule) CurrentPeriod(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.period, nil
}

func (s *SeasonSchedule) WeeksRemaining(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weeksRemaining, nil
}

func (s *SeasonSchedule) Advance(period string, weeksRemaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = period
	s.weeksRemaining = weeksRemaining
}
