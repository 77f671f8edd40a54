package services_test

import (
	"context"
	"sync/atomic"

	"skydeal/services"
)

// stubAI is a hand-written test double for services.CompletionClient. The
// reply function is invoked per call; calls counts invocations so tests can
// assert that a path made zero network requests.
type stubAI struct {
	reply func(system, user string) (string, error)
	calls atomic.Int64
}

func (s *stubAI) Complete(_ context.Context, system, user string) (string, error) {
	s.calls.Add(1)
	if s.reply == nil {
		return "", context.Canceled
	}
	return s.reply(system, user)
}

var _ services.CompletionClient = (*stubAI)(nil)

// stubFlights is a test double for services.FlightSearcher recording the
// last query it was handed.
type stubFlights struct {
	offer *services.FlightOffer
	err   error
	calls int
	last  services.FlightQuery
}

func (s *stubFlights) Search(_ context.Context, q services.FlightQuery) (*services.FlightOffer, error) {
	s.calls++
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	return s.offer, nil
}

var _ services.FlightSearcher = (*stubFlights)(nil)
