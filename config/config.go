// Package config holds the struct-per-component configuration for the
// scheduler, following the teacher's convention of a Config struct with
// yaml tags and a DefaultXConfig constructor per component
// (hostmgr/offer/offerpool, resmgr/task), loaded with go.yaml.in/yaml/v2.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v2"
	"golang.org/x/time/rate"

	"github.com/jasonlai/aurora/offerqueue"
	"github.com/jasonlai/aurora/scheduling"
	"github.com/jasonlai/aurora/taskgroups"
	"github.com/jasonlai/aurora/taskscheduler"
)

// OfferQueueConfig is the yaml-loadable view of offerqueue.Config. A zero
// duration field is treated the same as an unset one: Resolve replaces it
// with the package default.
type OfferQueueConfig struct {
	ReturnDelay          time.Duration `yaml:"returnDelay"`
	ReservationDuration  time.Duration `yaml:"reservationDuration"`
	DrainedForcesDecline bool          `yaml:"drainedForcesDecline"`
}

// Resolve converts the yaml-loaded config into offerqueue.Config, filling
// in package defaults for unset durations.
func (c OfferQueueConfig) Resolve() offerqueue.Config {
	cfg := offerqueue.DefaultConfig()
	if c.ReturnDelay > 0 {
		delay := c.ReturnDelay
		cfg.ReturnDelay = func(*scheduling.HostOffer) time.Duration { return delay }
	}
	if c.ReservationDuration > 0 {
		cfg.ReservationDuration = c.ReservationDuration
	}
	cfg.DrainedForcesDecline = c.DrainedForcesDecline
	return cfg
}

// TaskGroupsConfig is the yaml-loadable view of taskgroups.Config (spec
// §6 firstScheduleDelay, rateLimit).
type TaskGroupsConfig struct {
	FirstScheduleDelay time.Duration `yaml:"firstScheduleDelay"`
	RateLimitPerSec    float64       `yaml:"rateLimitPerSecond"`
	Burst              int           `yaml:"burst"`
}

// Resolve converts the yaml-loaded config into taskgroups.Config.
func (c TaskGroupsConfig) Resolve() taskgroups.Config {
	cfg := taskgroups.DefaultConfig()
	if c.FirstScheduleDelay > 0 {
		cfg.FirstScheduleDelay = c.FirstScheduleDelay
	}
	if c.RateLimitPerSec > 0 {
		cfg.RateLimit = rate.Limit(c.RateLimitPerSec)
	}
	if c.Burst > 0 {
		cfg.Burst = c.Burst
	}
	return cfg
}

// TaskSchedulerConfig is the yaml-loadable view of taskscheduler.Config.
type TaskSchedulerConfig struct {
	ReservationStatInterval time.Duration `yaml:"reservationStatInterval"`
}

// Resolve converts the yaml-loaded config into taskscheduler.Config.
func (c TaskSchedulerConfig) Resolve() taskscheduler.Config {
	cfg := taskscheduler.DefaultConfig()
	if c.ReservationStatInterval > 0 {
		cfg.ReservationStatInterval = c.ReservationStatInterval
	}
	return cfg
}

// Config is the top-level configuration document (spec §6).
type Config struct {
	OfferQueue    OfferQueueConfig    `yaml:"offerQueue"`
	TaskGroups    TaskGroupsConfig    `yaml:"taskGroups"`
	TaskScheduler TaskSchedulerConfig `yaml:"taskScheduler"`
}

// Load reads and parses a yaml config document from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}
	return &cfg, nil
}
