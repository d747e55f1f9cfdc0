// Package config holds the YAML configuration surface for the event
// engine and a file loader with live reload.
package config

import (
	"fmt"
	"time"

	"github.com/termflux/termflux/internal/queue"
	"github.com/termflux/termflux/internal/reactor"
)

// Config is the on-disk configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Input  InputConfig  `yaml:"input"`
	Events EventsConfig `yaml:"events"`
	Script ScriptConfig `yaml:"script"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File receives log lines. Empty means stderr, which is only
	// sensible when the terminal is not in raw mode.
	File string `yaml:"file"`
}

// InputConfig controls the terminal source. Pointer fields distinguish
// "absent" from "false" so defaults only fill unset keys.
type InputConfig struct {
	RawMode        *bool `yaml:"raw_mode"`
	Mouse          *bool `yaml:"mouse"`
	BracketedPaste *bool `yaml:"bracketed_paste"`
	FocusEvents    *bool `yaml:"focus_events"`
}

// EventsConfig controls the reactor.
type EventsConfig struct {
	IdleIntervalMs     int    `yaml:"idle_interval_ms"`
	MaxEventsPerTick   int    `yaml:"max_events_per_tick"`
	QueueMaxSize       int    `yaml:"queue_max_size"`
	OverflowPolicy     string `yaml:"overflow_policy"`
	DebounceKeys       bool   `yaml:"debounce_keys"`
	DebounceDelayMs    int    `yaml:"debounce_delay_ms"`
	ThrottleMouse      *bool  `yaml:"throttle_mouse"`
	ThrottleIntervalMs int    `yaml:"throttle_interval_ms"`
	HandleSignals      *bool  `yaml:"handle_signals"`
}

// ScriptConfig controls the Lua bridge.
type ScriptConfig struct {
	// Init is a Lua file executed at startup. Empty disables scripting.
	Init string `yaml:"init"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func boolPtr(v bool) *bool { return &v }

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Input.RawMode == nil {
		c.Input.RawMode = boolPtr(true)
	}
	if c.Input.Mouse == nil {
		c.Input.Mouse = boolPtr(true)
	}
	if c.Input.BracketedPaste == nil {
		c.Input.BracketedPaste = boolPtr(true)
	}
	if c.Input.FocusEvents == nil {
		c.Input.FocusEvents = boolPtr(true)
	}
	if c.Events.IdleIntervalMs == 0 {
		c.Events.IdleIntervalMs = int(reactor.DefaultIdleInterval / time.Millisecond)
	}
	if c.Events.MaxEventsPerTick == 0 {
		c.Events.MaxEventsPerTick = reactor.DefaultMaxEventsPerTick
	}
	if c.Events.QueueMaxSize == 0 {
		c.Events.QueueMaxSize = reactor.DefaultQueueMaxSize
	}
	if c.Events.OverflowPolicy == "" {
		c.Events.OverflowPolicy = "reject"
	}
	if c.Events.DebounceDelayMs == 0 {
		c.Events.DebounceDelayMs = int(reactor.DefaultDebounceDelay / time.Millisecond)
	}
	if c.Events.ThrottleMouse == nil {
		c.Events.ThrottleMouse = boolPtr(true)
	}
	if c.Events.ThrottleIntervalMs == 0 {
		c.Events.ThrottleIntervalMs = int(reactor.DefaultThrottleInterval / time.Millisecond)
	}
	if c.Events.HandleSignals == nil {
		c.Events.HandleSignals = boolPtr(true)
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn, or error", c.Log.Level)
	}
	if _, err := parsePolicy(c.Events.OverflowPolicy); err != nil {
		return err
	}
	if c.Events.IdleIntervalMs < 0 {
		return fmt.Errorf("events.idle_interval_ms %d: must not be negative", c.Events.IdleIntervalMs)
	}
	if c.Events.MaxEventsPerTick < 0 {
		return fmt.Errorf("events.max_events_per_tick %d: must not be negative", c.Events.MaxEventsPerTick)
	}
	if c.Events.QueueMaxSize < 0 {
		return fmt.Errorf("events.queue_max_size %d: must not be negative", c.Events.QueueMaxSize)
	}
	if c.Events.DebounceDelayMs < 0 {
		return fmt.Errorf("events.debounce_delay_ms %d: must not be negative", c.Events.DebounceDelayMs)
	}
	if c.Events.ThrottleIntervalMs < 0 {
		return fmt.Errorf("events.throttle_interval_ms %d: must not be negative", c.Events.ThrottleIntervalMs)
	}
	return nil
}

func parsePolicy(s string) (queue.OverflowPolicy, error) {
	switch s {
	case "reject":
		return queue.OverflowReject, nil
	case "evict_oldest":
		return queue.OverflowEvictOldest, nil
	}
	return 0, fmt.Errorf("events.overflow_policy %q: must be reject or evict_oldest", s)
}

// IdleInterval returns the idle period as a duration.
func (c *Config) IdleInterval() time.Duration {
	return time.Duration(c.Events.IdleIntervalMs) * time.Millisecond
}

// ReactorOptions converts the events section into reactor options.
// Validate first; an invalid policy falls back to reject here.
func (c *Config) ReactorOptions() []reactor.Option {
	policy, err := parsePolicy(c.Events.OverflowPolicy)
	if err != nil {
		policy = queue.OverflowReject
	}
	opts := []reactor.Option{
		reactor.WithIdleInterval(c.IdleInterval()),
		reactor.WithMaxEventsPerTick(c.Events.MaxEventsPerTick),
		reactor.WithQueueMaxSize(c.Events.QueueMaxSize),
		reactor.WithOverflowPolicy(policy),
	}
	if c.Events.DebounceKeys {
		opts = append(opts, reactor.WithDebounceKeys(time.Duration(c.Events.DebounceDelayMs)*time.Millisecond))
	}
	if c.Events.ThrottleMouse != nil && *c.Events.ThrottleMouse {
		opts = append(opts, reactor.WithMouseThrottle(time.Duration(c.Events.ThrottleIntervalMs)*time.Millisecond))
	} else {
		opts = append(opts, reactor.WithoutMouseThrottle())
	}
	if c.Events.HandleSignals != nil && !*c.Events.HandleSignals {
		opts = append(opts, reactor.WithoutSignals())
	}
	return opts
}
