package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"skydeal/logging"
)

// cityCodes maps normalized city names to IATA codes. Read-only after init,
// shared by all requests without locking.
var cityCodes = map[string]string{
	"bucuresti": "OTP", "bucharest": "OTP",
	"iasi": "IAS", "cluj": "CLJ", "timisoara": "TSR",
	"suceava": "SCV", "sibiu": "SBZ",
	"london": "LON", "londra": "LON",
	"paris": "PAR",
	"roma":  "ROM", "rome": "ROM",
	"madrid":    "MAD",
	"barcelona": "BCN",
	"lisbon":    "LIS", "lisabona": "LIS",
	"milano": "MIL", "milan": "MIL",
	"amsterdam": "AMS",
	"berlin":    "BER",
	"munchen":   "MUC", "munich": "MUC",
	"viena": "VIE", "vienna": "VIE",
	"praga": "PRG", "prague": "PRG",
	"budapesta": "BUD", "budapest": "BUD",
	"atena": "ATH", "athens": "ATH",
	"bruxelles": "BRU", "brussels": "BRU",
	"dublin":   "DUB",
	"istanbul": "IST",
	"dubai":    "DXB",
	"new york": "NYC",
	"napoli":   "NAP", "naples": "NAP",
}

// Resolver converts a city name or code into a 3-letter IATA code.
type Resolver struct {
	ai          CompletionClient
	defaultCode string
}

func NewResolver(ai CompletionClient, defaultCode string) *Resolver {
	return &Resolver{ai: ai, defaultCode: defaultCode}
}

// Resolve is total: table hits and already-code inputs return without any
// network call; otherwise exactly one AI completion is attempted, and any
// failure falls back to the configured default code.
func (r *Resolver) Resolve(ctx context.Context, cityOrCode string) string {
	normalized := NormalizeCityName(cityOrCode)

	if threeLetters.MatchString(normalized) {
		return strings.ToUpper(normalized)
	}

	if code, ok := cityCodes[normalized]; ok {
		return code
	}

	reply, err := r.ai.Complete(ctx,
		"You are an IATA expert. Return ONLY the 3-letter airport code. No explanation.",
		"What is the IATA code for "+cityOrCode+"?")
	if err != nil {
		logging.GetLogger().Warn("AI IATA resolution failed, using default code",
			zap.String("city", cityOrCode), zap.Error(err))
		return r.defaultCode
	}

	return ExtractIATA(reply, r.defaultCode)
}
