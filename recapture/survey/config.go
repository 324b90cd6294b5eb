package survey

import (
	"github.com/drausin/recapture/recapture/hpd"
	"github.com/drausin/recapture/recapture/posterior"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultNSamples is the default number of posterior draws per group.
	DefaultNSamples = 1000

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = zapcore.InfoLevel
)

// Config is used to configure a Survey.
type Config struct {
	// TotalTagged is the number of tagged individuals released into the population.
	TotalTagged int64

	// PriorSuccesses is the Beta prior pseudo-count of tagged catches.
	PriorSuccesses int64

	// PriorFailures is the Beta prior pseudo-count of untagged catches.
	PriorFailures int64

	// NSamples is the number of posterior draws per group.
	NSamples int

	// CredibleMass is the posterior probability mass each HPD interval contains.
	CredibleMass float64

	// Seed seeds the random source posterior draws come from.
	Seed uint64

	// Parallelism is the maximum number of groups whose intervals are estimated concurrently.
	Parallelism uint32

	// LogLevel is the log level
	LogLevel zapcore.Level
}

// NewDefaultConfig creates a new config with default values.
func NewDefaultConfig() *Config {
	config := &Config{}
	config.WithDefaultPrior().
		WithDefaultNSamples().
		WithDefaultCredibleMass().
		WithDefaultParallelism().
		WithDefaultLogLevel()
	return config
}

// WithTotalTagged sets the number of tagged individuals in the population.
func (c *Config) WithTotalTagged(totalTagged int64) *Config {
	c.TotalTagged = totalTagged
	return c
}

// WithPrior sets the Beta prior pseudo-counts. Unlike the other setters, it keeps zero values.
func (c *Config) WithPrior(priorSuccesses, priorFailures int64) *Config {
	c.PriorSuccesses = priorSuccesses
	c.PriorFailures = priorFailures
	return c
}

// WithDefaultPrior sets the prior to the flat Beta(1, 1).
func (c *Config) WithDefaultPrior() *Config {
	return c.WithPrior(posterior.DefaultPriorSuccesses, posterior.DefaultPriorFailures)
}

// WithNSamples sets the number of posterior draws per group to the given value or the default
// if it is zero.
func (c *Config) WithNSamples(nSamples int) *Config {
	if nSamples == 0 {
		return c.WithDefaultNSamples()
	}
	c.NSamples = nSamples
	return c
}

// WithDefaultNSamples sets the number of posterior draws to the default value.
func (c *Config) WithDefaultNSamples() *Config {
	c.NSamples = DefaultNSamples
	return c
}

// WithCredibleMass sets the credible mass to the given value or the default if it is zero.
func (c *Config) WithCredibleMass(credibleMass float64) *Config {
	if credibleMass == 0 {
		return c.WithDefaultCredibleMass()
	}
	c.CredibleMass = credibleMass
	return c
}

// WithDefaultCredibleMass sets the credible mass to the default value.
func (c *Config) WithDefaultCredibleMass() *Config {
	c.CredibleMass = hpd.DefaultCredibleMass
	return c
}

// WithSeed sets the random seed.
func (c *Config) WithSeed(seed uint64) *Config {
	c.Seed = seed
	return c
}

// WithParallelism sets the estimation parallelism to the given value or the default if it is
// zero.
func (c *Config) WithParallelism(parallelism uint32) *Config {
	if parallelism == 0 {
		return c.WithDefaultParallelism()
	}
	c.Parallelism = parallelism
	return c
}

// WithDefaultParallelism sets the estimation parallelism to the default value.
func (c *Config) WithDefaultParallelism() *Config {
	c.Parallelism = hpd.DefaultParallelism
	return c
}

// WithLogLevel sets the log level to the given value.
func (c *Config) WithLogLevel(logLevel zapcore.Level) *Config {
	c.LogLevel = logLevel
	return c
}

// WithDefaultLogLevel sets the log level to the default value.
func (c *Config) WithDefaultLogLevel() *Config {
	c.LogLevel = DefaultLogLevel
	return c
}
