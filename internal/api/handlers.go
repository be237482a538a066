// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"errors"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/cache"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/config"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/explain"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/narrative"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/services"
)

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	cfg      *config.Config
	insights *services.InsightService
	enhancer narrative.Enhancer // may be nil
	cache    *cache.Cache
}

// NewHandler creates a handler. enhancer may be nil when no narrative model
// is configured.
func NewHandler(cfg *config.Config, insights *services.InsightService, enhancer narrative.Enhancer, c *cache.Cache) *Handler {
	return &Handler{
		cfg:      cfg,
		insights: insights,
		enhancer: enhancer,
		cache:    c,
	}
}

// locationParam returns the decoded :location path parameter, so area names
// with spaces ("Electronic City") resolve correctly.
func locationParam(c *fiber.Ctx) string {
	raw := c.Params("location")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "traffic-congestion-agent",
	})
}

// ListAreas returns the monitored areas with coordinates.
func (h *Handler) ListAreas(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"areas": h.cfg.Areas,
	})
}

// GetTraffic returns the normalized traffic reading for one location.
func (h *Handler) GetTraffic(c *fiber.Ctx) error {
	location := locationParam(c)

	reading, err := h.insights.TrafficFor(c.Context(), location)
	if err != nil {
		return trafficError(err)
	}
	return c.JSON(reading)
}

// GetWeather returns the normalized weather reading for one location.
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	location := locationParam(c)

	reading, err := h.insights.WeatherFor(c.Context(), location)
	if err != nil {
		return trafficError(err)
	}
	return c.JSON(reading)
}

// GetInsight returns the combined insight for one location.
func (h *Handler) GetInsight(c *fiber.Ctx) error {
	location := locationParam(c)

	insight, err := h.insights.CombinedInsight(c.Context(), location)
	if err != nil {
		return trafficError(err)
	}
	return c.JSON(insight)
}

// GetAnalysis runs the explainable analysis for one location. With
// ?format=text the plain-text report is returned instead of JSON; with
// ?narrative=true a model-written briefing is attached.
func (h *Handler) GetAnalysis(c *fiber.Ctx) error {
	location := locationParam(c)

	out, err := h.insights.Explain(c.Context(), location)
	if err != nil {
		return trafficError(err)
	}

	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(explain.FormatForDisplay(out))
	}

	if c.Query("narrative") == "true" && h.enhancer != nil {
		briefing, err := h.enhancer.EnhanceExplanation(c.Context(), out)
		if err != nil {
			log.Printf("Narrative enhancement failed for %s: %v", location, err)
			return c.JSON(fiber.Map{"analysis": out})
		}
		return c.JSON(fiber.Map{"analysis": out, "narrative": briefing})
	}

	return c.JSON(fiber.Map{"analysis": out})
}

// GetPrompt returns the plain-text data block consumed by external prompt
// templates for one location.
func (h *Handler) GetPrompt(c *fiber.Ctx) error {
	location := locationParam(c)

	insight, err := h.insights.CombinedInsight(c.Context(), location)
	if err != nil {
		return trafficError(err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(services.FormatForPrompt(insight))
}

// GetStatus returns the traffic summary for all monitored areas plus cache
// occupancy.
func (h *Handler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"areas": h.insights.AllAreasStatus(c.Context()),
		"cache": h.cache.Stats(),
	})
}

// trafficError maps pipeline errors onto HTTP status codes. Malformed
// upstream data is the caller-visible 400 case; everything else is a 502.
func trafficError(err error) error {
	if errors.Is(err, congestion.ErrInvalidReading) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}
