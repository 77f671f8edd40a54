package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skydeal/handlers"
	"skydeal/services"
)

type offlineAI struct{}

func (offlineAI) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("AI unavailable")
}

type fixedFlights struct {
	offer *services.FlightOffer
	err   error
}

func (f fixedFlights) Search(context.Context, services.FlightQuery) (*services.FlightOffer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.offer, nil
}

func newRouter(flights services.FlightSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	ai := offlineAI{}
	resolver := services.NewResolver(ai, "OTP")
	planner := services.NewPlanner(
		resolver,
		services.NewSelector(resolver, ai, services.DestinationChoice{Code: "NAP", Name: "Napoli"}),
		services.NewDatePlanner(ai),
		flights,
		services.NewHotelEstimator(ai, "mid-range hotel"),
		services.NewContentSynthesizer(ai),
	)

	h := handlers.New(planner, 30*time.Second)
	r := gin.New()
	r.POST("/api/search", h.Search)
	return r
}

func doSearch(t *testing.T, r *gin.Engine, body map[string]any) (*httptest.ResponseRecorder, handlers.SearchResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp handlers.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestSearch_successReturnsOfferAndContent(t *testing.T) {
	r := newRouter(fixedFlights{offer: &services.FlightOffer{Price: 180, Currency: "EUR"}})

	rec, resp := doSearch(t, r, map[string]any{
		"mode":        "exact",
		"origin":      "Bucharest",
		"destination": "Lisbon",
		"date":        "2025-06-10",
		"dateKind":    "exact",
		"nights":      4,
		"currency":    "EUR",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.RequestID)
	require.NotNil(t, resp.Offer)
	assert.Equal(t, "OTP", resp.Offer.OriginCode)
	assert.Equal(t, "LIS", resp.Offer.DestinationCode)
	assert.Equal(t, 180.0, resp.Offer.FlightPrice)
	// Hotel estimate degraded to unknown (AI offline), so total is the flight.
	assert.Equal(t, 180.0, resp.Offer.TotalCost)
	require.NotNil(t, resp.Content)
	assert.Equal(t, "GETAWAY LISBON", resp.Content.Hook)
}

func TestSearch_missingOriginIsNoData(t *testing.T) {
	r := newRouter(fixedFlights{offer: &services.FlightOffer{Price: 180}})

	rec, resp := doSearch(t, r, map[string]any{
		"mode":     "exact",
		"date":     "2025-06-10",
		"dateKind": "exact",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no_data", resp.Status)
	assert.Nil(t, resp.Offer)
	assert.NotEmpty(t, resp.Message)
}

func TestSearch_noOffersIsNoDataNotServerError(t *testing.T) {
	r := newRouter(fixedFlights{err: services.ErrNoOffers})

	rec, resp := doSearch(t, r, map[string]any{
		"mode":        "exact",
		"origin":      "Bucharest",
		"destination": "Lisbon",
		"date":        "2025-06-10",
		"dateKind":    "exact",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no_data", resp.Status)
	assert.Contains(t, resp.Message, "Lisbon")
}

func TestSearch_malformedBodyIsBadRequest(t *testing.T) {
	r := newRouter(fixedFlights{})

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
