package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"skydeal/logging"
)

// hotelBudgetShare is the fraction of a budget ceiling reserved for lodging
// on round trips; the flight search is capped at the remainder.
const hotelBudgetShare = 0.4

// PlanResult is the outcome of one search. Either Offer and Content are set,
// or NoDataMessage explains why nothing usable was found.
type PlanResult struct {
	Offer         *TripOffer
	Content       *ContentPackage
	NoDataMessage string
}

// Planner sequences resolution, destination choice, date planning, flight
// search, hotel estimation and content synthesis. It owns the failure
// policy: every AI-backed step degrades to its default, and only a missing
// flight offer or an invalid request short-circuits to no-data.
type Planner struct {
	resolver *Resolver
	selector *Selector
	dates    *DatePlanner
	flights  FlightSearcher
	hotels   *HotelEstimator
	content  *ContentSynthesizer
}

func NewPlanner(
	resolver *Resolver,
	selector *Selector,
	dates *DatePlanner,
	flights FlightSearcher,
	hotels *HotelEstimator,
	content *ContentSynthesizer,
) *Planner {
	return &Planner{
		resolver: resolver,
		selector: selector,
		dates:    dates,
		flights:  flights,
		hotels:   hotels,
		content:  content,
	}
}

// Plan runs the full pipeline for one request. The returned error is reserved
// for transport-level failures; absent flights and invalid input surface as a
// no-data PlanResult.
func (p *Planner) Plan(ctx context.Context, req TripRequest) (*PlanResult, error) {
	log := logging.GetLogger()

	if req.Origin == "" || req.Date == "" {
		return &PlanResult{NoDataMessage: "Pick a departure city and a date."}, nil
	}
	if req.Mode == ModeExact && req.Destination == "" {
		return &PlanResult{NoDataMessage: "Pick a destination for an exact search."}, nil
	}
	if req.Currency == "" {
		req.Currency = "EUR"
	}

	// 1. Origin city -> IATA code.
	originCode := p.resolver.Resolve(ctx, req.Origin)
	log.Debug("origin resolved", zap.String("origin", req.Origin), zap.String("code", originCode))

	// 2. Destination.
	choice := p.selector.Select(ctx, req, originCode)
	log.Debug("destination selected",
		zap.String("city", choice.Name), zap.String("code", choice.Code))

	// 3. Dates.
	departureDate, returnDate := p.dates.Plan(ctx, req, originCode, choice.Code)

	// 4. Flights. With a budget ceiling, cap the flight price: on round trips
	// part of the ceiling is reserved for lodging.
	var maxPrice float64
	if req.Budget > 0 {
		maxPrice = req.Budget
		if returnDate != "" {
			maxPrice = req.Budget * (1 - hotelBudgetShare)
		}
	}

	flight, err := p.flights.Search(ctx, FlightQuery{
		Origin:        originCode,
		Destination:   choice.Code,
		DepartureDate: departureDate,
		ReturnDate:    returnDate,
		Currency:      req.Currency,
		MaxPrice:      maxPrice,
	})
	if err != nil {
		if !errors.Is(err, ErrNoOffers) {
			log.Warn("flight search failed", zap.Error(err))
		}
		return &PlanResult{
			NoDataMessage: fmt.Sprintf("No flights found from %s to %s on %s.",
				originCode, choice.Name, departureDate),
		}, nil
	}

	// 5. Hotel, only for stays with at least one night.
	hotel := HotelEstimate{Name: p.hotels.defaultName, TotalPrice: 0, Nights: req.Nights}
	if req.Nights > 0 {
		remaining := 0.0
		if req.Budget > 0 {
			remaining = req.Budget - flight.Price
		}
		hotel = p.hotels.Estimate(ctx, choice.Name, req.Nights, req.Currency, remaining)
	}

	offer := TripOffer{
		Origin:          req.Origin,
		OriginCode:      originCode,
		Destination:     choice.Name,
		DestinationCode: choice.Code,
		DepartureDate:   departureDate,
		ReturnDate:      returnDate,
		FlightPrice:     flight.Price,
		HotelPrice:      hotel.TotalPrice,
		TotalCost:       math.Floor(flight.Price + hotel.TotalPrice),
		Currency:        req.Currency,
		Nights:          req.Nights,
		Duration:        flight.Duration,
		Stops:           flight.Stops,
		Reason:          choice.Reason,
	}

	// 6. Marketing copy; a synthesis failure never blocks the offer.
	content := p.content.Synthesize(ctx, offer, hotel.Name)

	return &PlanResult{Offer: &offer, Content: &content}, nil
}
