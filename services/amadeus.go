package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"skydeal/config"
	"skydeal/logging"
)

// ErrNoOffers reports that the provider answered but had nothing usable.
// Callers must turn this into a no-data outcome, not a server error.
var ErrNoOffers = errors.New("no flight offers found")

// FlightQuery is one flight-offers search. MaxPrice of 0 means no cap.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Currency      string
	MaxPrice      float64
}

// FlightSearcher is the outbound flight-search capability.
type FlightSearcher interface {
	Search(ctx context.Context, q FlightQuery) (*FlightOffer, error)
}

// AmadeusClient queries the Amadeus Flight Offers Search API.
type AmadeusClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	maxResults   int
	callTimeout  time.Duration

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	httpClient *http.Client
}

func NewAmadeusClient(cfg config.Config) *AmadeusClient {
	baseURL := "https://api.amadeus.com" // production
	if cfg.AmadeusEnv == "" || cfg.AmadeusEnv == "test" {
		baseURL = "https://test.api.amadeus.com" // free test environment
	}

	c := &AmadeusClient{
		clientID:     cfg.AmadeusClientID,
		clientSecret: cfg.AmadeusClientSecret,
		baseURL:      baseURL,
		maxResults:   cfg.MaxFlightResults,
		callTimeout:  cfg.CallTimeout(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if c.clientID == "" || c.clientSecret == "" {
		logging.GetLogger().Warn("AMADEUS_CLIENT_ID or AMADEUS_CLIENT_SECRET not set — flight search will fail closed")
	}
	return c
}

// ─── OAuth2 Token ─────────────────────────────────────────────────────────────

func (c *AmadeusClient) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse token response: %v", err)
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-30) * time.Second)
	c.mu.Unlock()

	return nil
}

func (c *AmadeusClient) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	expired := time.Now().After(c.tokenExpiry)
	token := c.accessToken
	c.mu.Unlock()

	if expired || token == "" {
		if err := c.refreshToken(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}
	return token, nil
}

func (c *AmadeusClient) doRequest(ctx context.Context, method, path string) ([]byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("amadeus error (%d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// ─── Flight Search ────────────────────────────────────────────────────────────

// Search runs one flight-offers request and returns the cheapest usable
// offer. One attempt, no retry; zero usable offers maps to ErrNoOffers.
func (c *AmadeusClient) Search(ctx context.Context, q FlightQuery) (*FlightOffer, error) {
	if c.clientID == "" {
		return nil, fmt.Errorf("amadeus not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartureDate)
	params.Set("adults", "1")
	params.Set("max", fmt.Sprintf("%d", c.maxResults))
	params.Set("currencyCode", q.Currency)
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}
	if q.MaxPrice > 0 {
		params.Set("maxPrice", fmt.Sprintf("%.0f", q.MaxPrice))
	}

	body, err := c.doRequest(ctx, "GET", "/v2/shopping/flight-offers?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	offers, err := parseFlightOffers(body, q)
	if err != nil {
		return nil, err
	}
	return cheapestOffer(offers)
}

type amadeusFlightOffersResponse struct {
	Data []amadeusFlightOffer `json:"data"`
}

type amadeusFlightOffer struct {
	Price struct {
		GrandTotal string `json:"grandTotal"`
		Total      string `json:"total"`
		Currency   string `json:"currency"`
	} `json:"price"`
	Itineraries []struct {
		Duration string `json:"duration"`
		Segments []struct {
			Arrival struct {
				IataCode string `json:"iataCode"`
			} `json:"arrival"`
		} `json:"segments"`
	} `json:"itineraries"`
}

func parseFlightOffers(data []byte, q FlightQuery) ([]FlightOffer, error) {
	var resp amadeusFlightOffersResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse flight offers: %w", err)
	}

	offers := make([]FlightOffer, 0, len(resp.Data))
	for _, offer := range resp.Data {
		if len(offer.Itineraries) < 1 {
			continue
		}

		total := offer.Price.GrandTotal
		if total == "" {
			total = offer.Price.Total
		}
		price := parsePrice(total)
		if price <= 0 {
			continue
		}

		outbound := offer.Itineraries[0]
		currency := offer.Price.Currency
		if currency == "" {
			currency = q.Currency
		}

		offers = append(offers, FlightOffer{
			Price:         price,
			Currency:      currency,
			Duration:      parseDuration(outbound.Duration),
			Stops:         maxInt(0, len(outbound.Segments)-1),
			Origin:        q.Origin,
			Destination:   q.Destination,
			DepartureDate: q.DepartureDate,
			ReturnDate:    q.ReturnDate,
		})
	}
	return offers, nil
}

// cheapestOffer sorts ascending by total price and picks the head. The
// provider's own ordering is never trusted.
func cheapestOffer(offers []FlightOffer) (*FlightOffer, error) {
	if len(offers) == 0 {
		return nil, ErrNoOffers
	}
	sort.Slice(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})
	best := offers[0]
	logging.GetLogger().Debug("selected cheapest flight offer",
		zap.Float64("price", best.Price),
		zap.Int("candidates", len(offers)))
	return &best, nil
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// parseDuration converts ISO 8601 duration (PT5H30M) to human readable (5h 30m)
func parseDuration(iso string) string {
	if iso == "" {
		return ""
	}
	iso = strings.TrimPrefix(iso, "PT")
	result := ""
	hIdx := strings.Index(iso, "H")
	mIdx := strings.Index(iso, "M")
	if hIdx >= 0 {
		result += iso[:hIdx] + "h"
		iso = iso[hIdx+1:]
		mIdx = strings.Index(iso, "M")
	}
	if mIdx >= 0 && mIdx < len(iso) {
		if result != "" {
			result += " "
		}
		result += iso[:mIdx] + "m"
	}
	return result
}

func parsePrice(s string) float64 {
	var price float64
	fmt.Sscanf(s, "%f", &price)
	return price
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
