package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"skydeal/logging"
)

// DatePlanner resolves the departure date and computes the return date.
type DatePlanner struct {
	ai CompletionClient
}

func NewDatePlanner(ai CompletionClient) *DatePlanner {
	return &DatePlanner{ai: ai}
}

// Plan returns the departure date and, when nights > 0, the return date.
// For a month-kind date it asks the AI for the cheapest day in that month and
// falls back to the 15th when the reply is unusable.
func (p *DatePlanner) Plan(ctx context.Context, req TripRequest, originCode, destCode string) (departure, ret string) {
	departure = req.Date
	if req.DateKind == DateMonth {
		departure = p.cheapestDateInMonth(ctx, req.Date, originCode, destCode)
	}

	if req.Nights > 0 {
		r, err := AddDays(departure, req.Nights)
		if err != nil {
			logging.GetLogger().Warn("could not compute return date",
				zap.String("departure", departure), zap.Error(err))
		} else {
			ret = r
		}
	}
	return departure, ret
}

func (p *DatePlanner) cheapestDateInMonth(ctx context.Context, month, originCode, destCode string) string {
	fallback := month + "-15"

	prompt := fmt.Sprintf(
		"What is the single cheapest departure date in %s for a flight from %s to %s? Reply with one date in YYYY-MM-DD format.",
		month, originCode, destCode)

	reply, err := p.ai.Complete(ctx, "", prompt)
	if err != nil {
		logging.GetLogger().Warn("cheapest-date lookup failed, using mid-month",
			zap.String("month", month), zap.Error(err))
		return fallback
	}

	if d := ExtractISODate(reply); d != "" {
		return d
	}
	return fallback
}
