package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"skydeal/logging"
)

// HotelEstimator guesses the lodging cost of a stay via one AI prompt.
type HotelEstimator struct {
	ai          CompletionClient
	defaultName string
}

func NewHotelEstimator(ai CompletionClient, defaultName string) *HotelEstimator {
	return &HotelEstimator{ai: ai, defaultName: defaultName}
}

// Estimate returns a lodging guess for the full stay. Any failure yields the
// configured placeholder name with price 0, which means unknown, never free.
func (e *HotelEstimator) Estimate(ctx context.Context, destination string, nights int, currency string, remainingBudget float64) HotelEstimate {
	fallback := HotelEstimate{Name: e.defaultName, TotalPrice: 0, Nights: nights}

	prompt := fmt.Sprintf(
		"Cost for a 3-star hotel in %s for %d nights in %s.", destination, nights, currency)
	if remainingBudget > 0 {
		prompt += fmt.Sprintf(" Lodging budget is around %.0f %s.", remainingBudget, currency)
	}
	prompt += ` Return JSON: { "name": "Hotel Name", "totalPrice": "150" }`

	reply, err := e.ai.Complete(ctx, "", prompt)
	if err != nil {
		logging.GetLogger().Warn("hotel estimate call failed, using placeholder",
			zap.String("destination", destination), zap.Error(err))
		return fallback
	}

	// totalPrice arrives as a bare number or as a string with trailing
	// currency text, so decode it as raw JSON and run it through the
	// tolerant price extractor.
	var estimate struct {
		Name       string `json:"name"`
		TotalPrice any    `json:"totalPrice"`
	}
	if err := ExtractJSONObject(reply, &estimate); err != nil {
		logging.GetLogger().Warn("hotel estimate reply unparsable, using placeholder", zap.Error(err))
		return fallback
	}

	result := fallback
	if estimate.Name != "" {
		result.Name = estimate.Name
	}
	result.TotalPrice = ExtractPrice(fmt.Sprintf("%v", estimate.TotalPrice))
	return result
}
