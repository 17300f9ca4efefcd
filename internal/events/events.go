// Package events publishes domain notifications. The NATS publisher is used
// when a server URL is configured; otherwise Nop discards events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// SubjectFavoriteToggled carries FavoriteToggled events.
const SubjectFavoriteToggled = "trailmap.favorites.toggled"

// FavoriteToggled records a change of favorite membership.
type FavoriteToggled struct {
	TrailID  int       `json:"trail_id"`
	Favorite bool      `json:"favorite"`
	At       time.Time `json:"at"`
}

// Publisher delivers an event payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// NATSOptions configure the NATS connection.
type NATSOptions struct {
	Name           string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// DefaultNATSOptions returns the options used when none are configured.
func DefaultNATSOptions() NATSOptions {
	return NATSOptions{
		Name:           "trailmap",
		MaxReconnects:  10,
		ReconnectWait:  2 * time.Second,
		ConnectTimeout: 5 * time.Second,
	}
}

// NATS publishes JSON-encoded events to a NATS server.
type NATS struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// ConnectNATS dials url and returns a publisher on that connection.
func ConnectNATS(url string, opts NATSOptions, logger *zap.Logger) (*NATS, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	options := []nats.Option{
		nats.Name(opts.Name),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.Timeout(opts.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Debug("nats connection closed")
		}),
	}

	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}
	return &NATS{nc: nc, logger: logger}, nil
}

// Publish encodes payload as JSON and publishes it on subject.
func (p *NATS) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", subject, err)
	}
	if err := p.nc.Publish(subject, b); err != nil {
		return fmt.Errorf("publishing %s: %w", subject, err)
	}
	return nil
}

// Close flushes buffered messages and closes the connection.
func (p *NATS) Close() error {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return fmt.Errorf("draining nats connection: %w", err)
	}
	return nil
}
