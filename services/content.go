package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"skydeal/logging"
)

// ContentSynthesizer produces the short-form marketing copy for an offer.
type ContentSynthesizer struct {
	ai CompletionClient
}

func NewContentSynthesizer(ai CompletionClient) *ContentSynthesizer {
	return &ContentSynthesizer{ai: ai}
}

// Synthesize builds the copy. A deterministic template from the offer's own
// fields is always well-formed, even fully offline; AI-returned fields are
// overlaid key by key, and a failed or malformed reply leaves the template
// untouched.
func (s *ContentSynthesizer) Synthesize(ctx context.Context, offer TripOffer, hotelName string) ContentPackage {
	content := defaultContent(offer, hotelName)

	prompt := fmt.Sprintf(
		"Write a short-form video script for a trip to %s. Total: %.0f %s, %d nights.",
		offer.Destination, offer.TotalCost, offer.Currency, offer.Nights)
	if offer.Reason != "" {
		prompt += " Angle: " + offer.Reason + "."
	}
	prompt += ` Return JSON: { "hook": "...", "description": "...", "soundtrackLabel": "...", "audioScript": "..." }`

	reply, err := s.ai.Complete(ctx, "", prompt)
	if err != nil {
		logging.GetLogger().Warn("content synthesis call failed, keeping template",
			zap.String("destination", offer.Destination), zap.Error(err))
		return content
	}

	var generated struct {
		Hook            string `json:"hook"`
		Description     string `json:"description"`
		SoundtrackLabel string `json:"soundtrackLabel"`
		AudioScript     string `json:"audioScript"`
	}
	if err := ExtractJSONObject(reply, &generated); err != nil {
		logging.GetLogger().Warn("content synthesis reply unparsable, keeping template", zap.Error(err))
		return content
	}

	if generated.Hook != "" {
		content.Hook = generated.Hook
	}
	if generated.Description != "" {
		content.Description = generated.Description
	}
	if generated.SoundtrackLabel != "" {
		content.SoundtrackLabel = generated.SoundtrackLabel
	}
	if generated.AudioScript != "" {
		content.AudioScript = generated.AudioScript
	}
	return content
}

func defaultContent(offer TripOffer, hotelName string) ContentPackage {
	return ContentPackage{
		Hook:            "GETAWAY " + strings.ToUpper(offer.Destination),
		Description:     fmt.Sprintf("Full package at only %.0f %s!", offer.TotalCost, offer.Currency),
		SoundtrackLabel: "Trending Travel Sound",
		AudioScript:     fmt.Sprintf("Don't miss this deal for %s!", offer.Destination),
		HotelName:       hotelName,
	}
}
