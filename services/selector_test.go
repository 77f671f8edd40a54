package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"skydeal/services"
)

var fallbackDest = services.DestinationChoice{Code: "NAP", Name: "Napoli"}

func newSelector(strategyAI *stubAI) *services.Selector {
	resolver := services.NewResolver(strategyAI, "OTP")
	return services.NewSelector(resolver, strategyAI, fallbackDest)
}

func TestSelect_exactModeNeverIssuesStrategyPrompt(t *testing.T) {
	ai := &stubAI{}
	s := newSelector(ai)

	choice := s.Select(context.Background(), services.TripRequest{
		Mode:        services.ModeExact,
		Origin:      "Bucharest",
		Destination: "Lisbon",
	}, "OTP")

	assert.Equal(t, "LIS", choice.Code)
	assert.Equal(t, "Lisbon", choice.Name)
	// Lisbon is in the static table, so not even the resolver called out.
	assert.Zero(t, ai.calls.Load())
}

func TestSelect_vibeModeParsesStrategyJSON(t *testing.T) {
	ai := &stubAI{reply: func(system, user string) (string, error) {
		assert.Contains(t, user, "OTP")
		assert.Contains(t, user, "beach")
		return "```json\n{\"city\":\"Valencia\",\"iataCode\":\"VLC\",\"reason\":\"warm in May\"}\n```", nil
	}}
	s := newSelector(ai)

	choice := s.Select(context.Background(), services.TripRequest{
		Mode: services.ModeVibe,
		Vibe: "beach",
		Date: "2025-05-10",
	}, "OTP")

	assert.Equal(t, "VLC", choice.Code)
	assert.Equal(t, "Valencia", choice.Name)
	assert.Equal(t, "warm in May", choice.Reason)
	assert.Equal(t, int64(1), ai.calls.Load())
}

func TestSelect_globalModeWidensScopeAndEmbedsBudget(t *testing.T) {
	var prompt string
	ai := &stubAI{reply: func(system, user string) (string, error) {
		prompt = user
		return `{"city":"Bangkok","iataCode":"BKK","reason":"cheap long-haul"}`, nil
	}}
	s := newSelector(ai)

	choice := s.Select(context.Background(), services.TripRequest{
		Mode:     services.ModeGlobal,
		Vibe:     "street food",
		Budget:   800,
		Currency: "EUR",
		Date:     "2025-11-01",
	}, "OTP")

	assert.Equal(t, "BKK", choice.Code)
	assert.True(t, strings.Contains(prompt, "anywhere in the world"))
	assert.Contains(t, prompt, "800")
}

func TestSelect_aiErrorFallsBackToDefaultDestination(t *testing.T) {
	ai := &stubAI{reply: func(system, user string) (string, error) {
		return "", errors.New("network down")
	}}
	s := newSelector(ai)

	choice := s.Select(context.Background(), services.TripRequest{
		Mode: services.ModeRoulette,
		Date: "2025-07-01",
	}, "OTP")

	assert.Equal(t, fallbackDest, choice)
}

func TestSelect_garbageReplyFallsBackToDefaultDestination(t *testing.T) {
	ai := &stubAI{reply: func(system, user string) (string, error) {
		return "I'd suggest somewhere nice in the Mediterranean!", nil
	}}
	s := newSelector(ai)

	choice := s.Select(context.Background(), services.TripRequest{
		Mode: services.ModeVibe,
		Vibe: "romantic",
		Date: "2025-07-01",
	}, "OTP")

	assert.Equal(t, fallbackDest, choice)
}

func TestSelect_badCodeFieldRepairedLocally(t *testing.T) {
	ai := &stubAI{reply: func(system, user string) (string, error) {
		return `{"city":"Marrakesh","iataCode":"rak","reason":"souks"}`, nil
	}}
	s := newSelector(ai)

	choice := s.Select(context.Background(), services.TripRequest{
		Mode: services.ModeVibe,
		Vibe: "markets",
		Date: "2025-03-01",
	}, "OTP")

	// Repaired with ExtractIATA, no second AI round-trip.
	assert.Equal(t, "RAK", choice.Code)
	assert.Equal(t, int64(1), ai.calls.Load())
}
