package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"skydeal/logging"
)

// Selector picks the target airport for a request: direct resolution in
// exact mode, one AI strategy prompt otherwise.
type Selector struct {
	resolver *Resolver
	ai       CompletionClient
	fallback DestinationChoice
}

func NewSelector(resolver *Resolver, ai CompletionClient, fallback DestinationChoice) *Selector {
	return &Selector{resolver: resolver, ai: ai, fallback: fallback}
}

// Select resolves the destination choice. Exact mode never issues a strategy
// prompt; the AI-driven modes issue exactly one, and malformed or missing
// output is recovered with the configured default destination.
func (s *Selector) Select(ctx context.Context, req TripRequest, originCode string) DestinationChoice {
	if req.Mode == ModeExact {
		return DestinationChoice{
			Code: s.resolver.Resolve(ctx, req.Destination),
			Name: req.Destination,
		}
	}

	scope := fmt.Sprintf("in Europe with vibe %q", req.Vibe)
	if req.Mode == ModeGlobal || req.Mode == ModeRoulette {
		scope = fmt.Sprintf("anywhere in the world with vibe %q", req.Vibe)
	}

	prompt := fmt.Sprintf(
		"Pick ONE travel destination for %s. Departure %s, Date %s.",
		scope, originCode, req.Date)
	if req.Budget > 0 {
		prompt += fmt.Sprintf(" Total budget %.0f %s for flight and hotel.", req.Budget, req.Currency)
	}
	prompt += ` Return JSON: { "city": "Name", "iataCode": "3-LETTER-CODE", "reason": "Short reason" }`

	reply, err := s.ai.Complete(ctx, "", prompt)
	if err != nil {
		logging.GetLogger().Warn("destination strategy call failed, using default destination",
			zap.String("mode", string(req.Mode)), zap.Error(err))
		return s.fallback
	}

	var choice struct {
		City     string `json:"city"`
		IataCode string `json:"iataCode"`
		Reason   string `json:"reason"`
	}
	if err := ExtractJSONObject(reply, &choice); err != nil || choice.City == "" {
		logging.GetLogger().Warn("destination strategy reply unparsable, using default destination",
			zap.Error(err))
		return s.fallback
	}

	// The code field is parsed locally; no second network call.
	return DestinationChoice{
		Code:   ExtractIATA(choice.IataCode, s.fallback.Code),
		Name:   choice.City,
		Reason: choice.Reason,
	}
}
