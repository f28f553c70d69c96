package engine

import "github.com/go-go-golems/sessionbot/pkg/events"

// Option is a functional option for configuring engines.
type Option func(*Config) error

// Config holds configuration shared by all engines.
type Config struct {
	// EventSinks receive start/final/error events, in the order they were added.
	EventSinks []events.EventSink
}

func NewConfig() *Config {
	return &Config{
		EventSinks: make([]events.EventSink, 0),
	}
}

// WithSink adds an EventSink to the configuration.
func WithSink(sink events.EventSink) Option {
	return func(c *Config) error {
		c.EventSinks = append(c.EventSinks, sink)
		return nil
	}
}

func ApplyOptions(config *Config, options ...Option) error {
	for _, option := range options {
		if err := option(config); err != nil {
			return err
		}
	}
	return nil
}
