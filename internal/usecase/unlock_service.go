package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fieldpass/fantasy-corps/internal/domain/gameclass"
	"github.com/fieldpass/fantasy-corps/internal/domain/profile"
	"github.com/fieldpass/fantasy-corps/internal/domain/season"
)

// RegistrationStatus reports the registration gate for one class without
// changing anything.
type RegistrationStatus struct {
	Class           gameclass.Class
	Unlocked        bool
	CanRegister     bool
	Cost            int64
	RequiresPayment bool
	Reason          string
}

type UnlockService struct {
	profileRepo profile.Repository
	schedule    season.Schedule
	logger      *slog.Logger
}

func NewUnlockService(profileRepo profile.Repository, schedule season.Schedule, logger *slog.Logger) *UnlockService {
	if logger == nil {
		logger = slog.Default()
	}

	return &UnlockService{
		profileRepo: profileRepo,
		schedule:    schedule,
		logger:      logger,
	}
}

// Registration answers "can this user register for this class right now" and
// what it would cost, without mutating anything.
func (s *UnlockService) Registration(ctx context.Context, userID, className string) (RegistrationStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UnlockService.Registration")
	defer span.End()

	class, prof, weeks, err := s.load(ctx, userID, className)
	if err != nil {
		return RegistrationStatus{}, err
	}

	status := RegistrationStatus{Class: class, Unlocked: prof.HasUnlocked(class)}
	if status.Unlocked {
		status.CanRegister = true
		return status, nil
	}

	decision, err := gameclass.CanRegister(prof.XP, prof.CorpsCoin, class, weeks)
	if err != nil {
		if errors.Is(err, gameclass.ErrRegistrationWindowClosed) || errors.Is(err, gameclass.ErrInsufficientProgress) {
			status.Reason = err.Error()
			return status, nil
		}
		return RegistrationStatus{}, err
	}

	status.CanRegister = decision.CanRegister
	status.Cost = decision.Cost
	status.RequiresPayment = decision.RequiresPayment
	return status, nil
}

// Unlock registers the user for the class, debiting the unlock cost when the
// XP threshold is not met. The debit happens before the unlock record; if
// recording the unlock fails the debit is refunded.
func (s *UnlockService) Unlock(ctx context.Context, userID, className string) (RegistrationStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UnlockService.Unlock")
	defer span.End()

	class, prof, weeks, err := s.load(ctx, userID, className)
	if err != nil {
		return RegistrationStatus{}, err
	}

	if prof.HasUnlocked(class) {
		return RegistrationStatus{Class: class, Unlocked: true, CanRegister: true}, nil
	}

	decision, err := gameclass.CanRegister(prof.XP, prof.CorpsCoin, class, weeks)
	if err != nil {
		return RegistrationStatus{}, err
	}

	if decision.RequiresPayment {
		if err := s.profileRepo.AdjustBalance(ctx, userID, -decision.Cost); err != nil {
			return RegistrationStatus{}, fmt.Errorf("debit unlock cost: %w", err)
		}
	}

	if err := s.profileRepo.UnlockClass(ctx, userID, class); err != nil {
		if decision.RequiresPayment {
			if refundErr := s.profileRepo.AdjustBalance(ctx, userID, decision.Cost); refundErr != nil {
				s.logger.ErrorContext(ctx, "unlock refund failed",
					slog.String("user_id", userID),
					slog.String("class", class.String()),
					slog.Int64("amount", decision.Cost),
					slog.Any("error", refundErr),
				)
			}
		}
		return RegistrationStatus{}, fmt.Errorf("record class unlock: %w", err)
	}

	s.logger.InfoContext(ctx, "class unlocked",
		slog.String("user_id", userID),
		slog.String("class", class.String()),
		slog.Int64("cost", decision.Cost),
	)

	return RegistrationStatus{
		Class:           class,
		Unlocked:        true,
		CanRegister:     true,
		Cost:            decision.Cost,
		RequiresPayment: decision.RequiresPayment,
	}, nil
}

func (s *UnlockService) load(ctx context.Context, userID, className string) (gameclass.Class, profile.Profile, int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", profile.Profile{}, 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	class, err := gameclass.Parse(strings.TrimSpace(className))
	if err != nil {
		return "", profile.Profile{}, 0, fmt.Errorf("%w: %s", gameclass.ErrInvalidClass, className)
	}

	prof, found, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", profile.Profile{}, 0, fmt.Errorf("get profile: %w", err)
	}
	if !found {
		return "", profile.Profile{}, 0, fmt.Errorf("%w: profile %s", ErrNotFound, userID)
	}

	weeks, err := s.schedule.WeeksRemaining(ctx)
	if err != nil {
		return "", profile.Profile{}, 0, fmt.Errorf("%w: weeks remaining: %v", ErrDependencyUnavailable, err)
	}

	return class, prof, weeks, nil
}
