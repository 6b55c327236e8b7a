package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

// AddWaterInput is one drink. Date accepts YYYY-MM-DD or RFC3339 and defaults to now.
type AddWaterInput struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Date   string  `json:"date"`
}

// WaterService tracks water intake
type WaterService struct {
	water     domain.WaterRepository
	publisher domain.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewWaterService creates a water service. A nil publisher drops events.
func NewWaterService(water domain.WaterRepository, publisher domain.EventPublisher, log *zap.Logger) *WaterService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &WaterService{
		water:     water,
		publisher: publisher,
		logger:    logger.OrNop(log).Named("water"),
		now:       time.Now,
	}
}

// AddWater records an intake
func (s *WaterService) AddWater(ctx context.Context, userID string, in AddWaterInput) (*domain.WaterIntake, error) {
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount < 0 {
		return nil, domain.NewValidationError("amount", "must be a non-negative number")
	}

	unit, err := parseWaterUnit(in.Unit)
	if err != nil {
		return nil, err
	}

	date := s.now()
	if strings.TrimSpace(in.Date) != "" {
		date, err = parseTimestamp("date", in.Date)
		if err != nil {
			return nil, err
		}
	}

	intake := &domain.WaterIntake{
		UserID: userID,
		Date:   date,
		Amount: in.Amount,
		Unit:   unit,
	}
	if err := s.water.Create(ctx, intake); err != nil {
		return nil, fmt.Errorf("failed to save water intake: %w", err)
	}

	s.publisher.Publish(userID, domain.Event{Type: domain.EventWaterLogged, Data: intake})
	return intake, nil
}

// ListWater returns the user's intakes, newest first. start and end are optional and
// inclusive; a bare date as end covers that whole day.
func (s *WaterService) ListWater(ctx context.Context, userID, start, end string) ([]domain.WaterIntake, error) {
	var from, to *time.Time

	if strings.TrimSpace(start) != "" {
		t, err := parseTimestamp("startDate", start)
		if err != nil {
			return nil, err
		}
		from = &t
	}
	if strings.TrimSpace(end) != "" {
		t, err := parseTimestamp("endDate", end)
		if err != nil {
			return nil, err
		}
		if isDateOnly(end) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("endDate", "must not be before startDate")
	}

	return s.water.List(ctx, userID, from, to)
}

// Today sums the current day's intakes in milliliters
func (s *WaterService) Today(ctx context.Context, userID string) (*domain.WaterSummary, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)

	intakes, err := s.water.List(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}

	summary := &domain.WaterSummary{Unit: domain.WaterUnitMilliliter, Intakes: intakes}
	for _, w := range intakes {
		summary.TotalIntake += w.Milliliters()
	}
	if summary.Intakes == nil {
		summary.Intakes = []domain.WaterIntake{}
	}
	return summary, nil
}

// DeleteWater removes one of the user's records
func (s *WaterService) DeleteWater(ctx context.Context, userID, id string) error {
	if err := s.water.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.publisher.Publish(userID, domain.Event{Type: domain.EventWaterDeleted, Data: map[string]string{"id": id}})
	return nil
}

func parseWaterUnit(unit string) (string, error) {
	switch strings.TrimSpace(unit) {
	case "", domain.WaterUnitMilliliter:
		return domain.WaterUnitMilliliter, nil
	case domain.WaterUnitLiter, "l":
		return domain.WaterUnitLiter, nil
	}
	return "", domain.NewValidationError("unit", "must be ml or L")
}

func parseTimestamp(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, domain.NewValidationError(field, "must be YYYY-MM-DD or RFC3339")
}

func isDateOnly(s string) bool {
	_, err := time.Parse(domain.DateLayout, strings.TrimSpace(s))
	return err == nil
}
