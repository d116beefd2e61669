package sla

import (
	appconfig "github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// Config externalizes every constant the predictor reads so deployments can
// tune them without code changes. Zero values fall back to the defaults.
type Config struct {
	// ProcessingHours estimates remaining warehouse work by pipeline status.
	ProcessingHours map[enums.OrderStatus]float64

	// Transit hour estimates by destination zone class. Unknown zones use
	// the remote figure, the most conservative of the three.
	MetroTransitHours    float64
	NonMetroTransitHours float64
	RemoteTransitHours   float64

	// UnshippedBufferHours pads day-performance projections for orders that
	// have not left the warehouse yet.
	UnshippedBufferHours float64

	// LowBufferHours is the threshold below which the remaining time to
	// promise is itself reported as a risk factor.
	LowBufferHours float64
}

// DefaultProcessingHours is the documented default processing-hour table.
// Earlier stages cost more remaining hours; dispatched stages cost none.
func DefaultProcessingHours() map[enums.OrderStatus]float64 {
	return map[enums.OrderStatus]float64{
		enums.OrderStatusCreated:        4,
		enums.OrderStatusConfirmed:      3.5,
		enums.OrderStatusPicking:        3,
		enums.OrderStatusPicked:         2.5,
		enums.OrderStatusPacking:        2,
		enums.OrderStatusPacked:         1.5,
		enums.OrderStatusReadyToShip:    1,
		enums.OrderStatusShipped:        0,
		enums.OrderStatusInTransit:      0,
		enums.OrderStatusOutForDelivery: 0,
	}
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ProcessingHours:      DefaultProcessingHours(),
		MetroTransitHours:    24,
		NonMetroTransitHours: 48,
		RemoteTransitHours:   72,
		UnshippedBufferHours: 24,
		LowBufferHours:       6,
	}
}

// ConfigFromApp maps the environment-driven prediction settings onto the
// predictor config, keeping the default processing-hour table.
func ConfigFromApp(cfg appconfig.PredictionConfig) Config {
	return Config{
		ProcessingHours:      DefaultProcessingHours(),
		MetroTransitHours:    cfg.MetroTransitHours,
		NonMetroTransitHours: cfg.NonMetroTransitHours,
		RemoteTransitHours:   cfg.RemoteTransitHours,
		UnshippedBufferHours: cfg.UnshippedBufferHours,
		LowBufferHours:       cfg.LowBufferHours,
	}
}

func (c Config) normalized() Config {
	defaults := DefaultConfig()
	if len(c.ProcessingHours) == 0 {
		c.ProcessingHours = defaults.ProcessingHours
	}
	if c.MetroTransitHours <= 0 {
		c.MetroTransitHours = defaults.MetroTransitHours
	}
	if c.NonMetroTransitHours <= 0 {
		c.NonMetroTransitHours = defaults.NonMetroTransitHours
	}
	if c.RemoteTransitHours <= 0 {
		c.RemoteTransitHours = defaults.RemoteTransitHours
	}
	if c.UnshippedBufferHours <= 0 {
		c.UnshippedBufferHours = defaults.UnshippedBufferHours
	}
	if c.LowBufferHours <= 0 {
		c.LowBufferHours = defaults.LowBufferHours
	}
	return c
}
