package survey

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/drausin/recapture/recapture/common/errors"
	"github.com/drausin/recapture/recapture/common/parse"
	"github.com/drausin/recapture/recapture/hpd"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Report output formats.
const (
	TextFormat = "text"
	JSONFormat = "json"
	YAMLFormat = "yaml"
)

// CheckFormat returns an error if the report format is not supported. The empty format is
// treated as text.
func CheckFormat(format string) error {
	switch format {
	case TextFormat, JSONFormat, YAMLFormat, "":
		return nil
	default:
		return errors.NewInvalidParameterError("format", format,
			"must be one of text, json, yaml")
	}
}

// Summary holds a posterior mean and credible interval.
type Summary struct {
	Mean  float64 `json:"mean" yaml:"mean"`
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

func newSummary(mean float64, interval hpd.Interval) *Summary {
	return &Summary{Mean: mean, Lower: interval.Lower, Upper: interval.Upper}
}

// GroupReport holds the estimates for a single group of catches. Proportion and Population are
// nil when their estimate failed, in which case Errors says why.
type GroupReport struct {
	Index     int   `json:"index" yaml:"index"`
	Trials    int64 `json:"trials" yaml:"trials"`
	Successes int64 `json:"successes" yaml:"successes"`

	// Proportion is the sampled posterior mean and HPD interval of the tagged proportion.
	Proportion *Summary `json:"proportion,omitempty" yaml:"proportion,omitempty"`

	// Analytic is the exact posterior mean and equal-tailed interval of the tagged proportion.
	Analytic *Summary `json:"analytic,omitempty" yaml:"analytic,omitempty"`

	// Population is the sampled posterior mean and HPD interval of the population size.
	Population *Summary `json:"population,omitempty" yaml:"population,omitempty"`

	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Report holds the estimates of a survey run.
type Report struct {
	TotalTagged  int64          `json:"totalTagged" yaml:"totalTagged"`
	CredibleMass float64        `json:"credibleMass" yaml:"credibleMass"`
	NSamples     int            `json:"nSamples" yaml:"nSamples"`
	Seed         uint64         `json:"seed" yaml:"seed"`
	Groups       []*GroupReport `json:"groups" yaml:"groups"`
}

func newReport(config *Config, groups []*parse.Counts) *Report {
	r := &Report{
		TotalTagged:  config.TotalTagged,
		CredibleMass: config.CredibleMass,
		NSamples:     config.NSamples,
		Seed:         config.Seed,
		Groups:       make([]*GroupReport, len(groups)),
	}
	for i, g := range groups {
		r.Groups[i] = &GroupReport{Index: i, Trials: g.Trials, Successes: g.Successes}
	}
	return r
}

// Failed returns whether any group estimate failed.
func (r *Report) Failed() bool {
	for _, g := range r.Groups {
		if len(g.Errors) > 0 {
			return true
		}
	}
	return false
}

// Write writes the report to w in the given format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case TextFormat, "":
		return r.writeText(w)
	case JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case YAMLFormat:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return CheckFormat(format)
	}
}

func (r *Report) writeText(w io.Writer) error {
	pct := r.CredibleMass * 100
	if _, err := fmt.Fprintf(w, "total tagged: %d, %d posterior draws per group\n",
		r.TotalTagged, r.NSamples); err != nil {
		return err
	}
	for _, g := range r.Groups {
		lines := []string{
			fmt.Sprintf("group %d: caught %d, tagged %d\n", g.Index, g.Trials, g.Successes),
		}
		if g.Proportion != nil {
			lines = append(lines, fmt.Sprintf(
				"  tagged proportion: mean %.4f, %g%% HPD interval [%.4f, %.4f]\n",
				g.Proportion.Mean, pct, g.Proportion.Lower, g.Proportion.Upper))
		}
		if g.Analytic != nil {
			lines = append(lines, fmt.Sprintf(
				"  exact posterior:   mean %.4f, %g%% equal-tailed interval [%.4f, %.4f]\n",
				g.Analytic.Mean, pct, g.Analytic.Lower, g.Analytic.Upper))
		}
		if g.Population != nil {
			lines = append(lines, fmt.Sprintf(
				"  population size:   mean %.1f, %g%% HPD interval [%.1f, %.1f]\n",
				g.Population.Mean, pct, g.Population.Lower, g.Population.Upper))
		}
		for _, e := range g.Errors {
			lines = append(lines, fmt.Sprintf("  error: %s\n", e))
		}
		for _, l := range lines {
			if _, err := io.WriteString(w, l); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Report) logFields() []zap.Field {
	fields := []zap.Field{
		zap.Int64("total_tagged", r.TotalTagged),
		zap.Int("n_groups", len(r.Groups)),
		zap.Bool("failed", r.Failed()),
	}
	if len(r.Groups) == 1 {
		g := r.Groups[0]
		if g.Proportion != nil {
			fields = append(fields,
				zap.Float64("proportion_mean", g.Proportion.Mean),
				zap.Float64("proportion_lower", g.Proportion.Lower),
				zap.Float64("proportion_upper", g.Proportion.Upper),
			)
		}
		if g.Population != nil {
			fields = append(fields,
				zap.Float64("population_mean", g.Population.Mean),
				zap.Float64("population_lower", g.Population.Lower),
				zap.Float64("population_upper", g.Population.Upper),
			)
		}
	}
	return fields
}
