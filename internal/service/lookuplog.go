package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"weatherapp/internal/models"
	"weatherapp/internal/repository"
)

type LookupLogService struct {
	lookupRepo repository.LookupRepo
}

func NewLookupLogService(lookupRepo repository.LookupRepo) *LookupLogService {
	return &LookupLogService{lookupRepo: lookupRepo}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrInvalidOutcome   = errors.New("invalid outcome: must be LOADING, SUCCESS, or ERROR")
)

// IsValidationError reports whether err was caused by a bad LookupFilter.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange) || errors.Is(err, ErrInvalidOutcome)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeOutcome(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the filter.
func normalizeAndValidateFilter(f LookupFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	outcome := normalizeOutcome(f.Outcome)
	switch outcome {
	case "", models.OutcomeLoading, models.OutcomeSuccess, models.OutcomeError:
	default:
		return time.Time{}, time.Time{}, "", ErrInvalidOutcome
	}
	return from, to, outcome, nil
}

func (s *LookupLogService) List(ctx context.Context, f LookupFilter) ([]models.LookupEvent, error) {
	from, to, outcome, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.lookupRepo.List(ctx, from, to, outcome)
}
