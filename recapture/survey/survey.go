package survey

import (
	"fmt"

	"github.com/drausin/recapture/recapture/common/errors"
	"github.com/drausin/recapture/recapture/common/logging"
	"github.com/drausin/recapture/recapture/common/parse"
	"github.com/drausin/recapture/recapture/hpd"
	"github.com/drausin/recapture/recapture/posterior"
	"github.com/drausin/recapture/recapture/propagate"
	"github.com/drausin/recapture/recapture/samples"
	"go.uber.org/zap"
)

// Survey estimates the tagged proportion and population size for one or more groups of catches.
type Survey struct {
	config    *Config
	logger    *zap.Logger
	estimator hpd.Estimator
	rec       Recorder
}

// New creates a new *Survey from the config.
func New(config *Config, logger *zap.Logger, rec Recorder) (*Survey, error) {
	params, err := hpd.NewParameters(config.Parallelism)
	if err != nil {
		return nil, err
	}
	if config.TotalTagged < 1 {
		return nil, errors.NewInvalidParameterError("totalTagged", config.TotalTagged,
			"must be >= 1")
	}
	if config.NSamples < 1 {
		return nil, errors.NewInvalidParameterError("nSamples", config.NSamples,
			"must be >= 1")
	}
	if !(config.CredibleMass > 0 && config.CredibleMass < 1) {
		return nil, errors.NewInvalidParameterError("credibleMass", config.CredibleMass,
			"must be in (0, 1)")
	}
	return &Survey{
		config:    config,
		logger:    logger,
		estimator: hpd.NewEstimator(params),
		rec:       rec,
	}, nil
}

// Run estimates the tagged proportion and population size of each group. Invalid inputs fail
// the whole run before any sampling. Failed estimates of individual groups do not stop the
// others and are reported in their GroupReport.
func (s *Survey) Run(groups []*parse.Counts) (*Report, error) {
	obs, err := s.observations(groups)
	if err != nil {
		return nil, err
	}
	report := newReport(s.config, groups)

	proportions, err := posterior.SampleBatch(obs, s.config.NSamples,
		posterior.NewSource(s.config.Seed))
	if err != nil {
		return nil, err
	}
	s.rec.RecordDraws(proportions.Len())
	s.logger.Debug("sampled tagged proportion posteriors",
		zap.Int("n_groups", len(obs)),
		zap.Int("n_samples", s.config.NSamples),
		zap.Uint64("seed", s.config.Seed),
	)

	propEst, err := s.estimate(proportions)
	if err != nil && propEst == nil {
		return nil, err
	}
	for i, o := range obs {
		gr := report.Groups[i]
		p := o.Posterior()
		lower, upper := p.EqualTailed(s.config.CredibleMass)
		gr.Analytic = &Summary{Mean: p.Mean(), Lower: lower, Upper: upper}
		if !propEst.Intervals[i].Valid() {
			s.recordGroupErr(gr, ProportionQuantity, nodeErr(err, i))
			continue
		}
		gr.Proportion = newSummary(propEst.Means[i], propEst.Intervals[i])
		s.rec.RecordEstimate(ProportionQuantity, propEst.Intervals[i])

		s.estimatePopulation(gr, proportions.Node(i))
	}

	s.logger.Info("finished survey", report.logFields()...)
	return report, nil
}

// estimatePopulation propagates one group's proportion draws through the population size
// transform and estimates its HPD interval.
func (s *Survey) estimatePopulation(gr *GroupReport, proportionDraws []float64) {
	proportions, err := samples.FromDraws(proportionDraws)
	errors.MaybePanic(err) // should never happen
	populations, err := propagate.Propagate(proportions,
		propagate.PopulationSize(float64(s.config.TotalTagged)))
	if err != nil {
		s.recordGroupErr(gr, PopulationQuantity, err)
		return
	}
	popEst, err := s.estimate(populations)
	if err != nil {
		s.recordGroupErr(gr, PopulationQuantity, nodeErr(err, 0))
		return
	}
	gr.Population = newSummary(popEst.Means[0], popEst.Intervals[0])
	s.rec.RecordEstimate(PopulationQuantity, popEst.Intervals[0])
}

func (s *Survey) estimate(set *samples.Set) (*hpd.Result, error) {
	est, err := s.estimator.Estimate(set, s.config.CredibleMass)
	if nodeErrs, ok := err.(*hpd.NodeErrors); ok {
		s.logger.Debug("some nodes failed estimation",
			zap.Array("node_errors", logging.ToErrArray(nodeErrs.Map())),
		)
	}
	return est, err
}

func (s *Survey) observations(groups []*parse.Counts) ([]*posterior.Observation, error) {
	if len(groups) == 0 {
		return nil, errors.NewInvalidParameterError("groups", 0, "must be non-empty")
	}
	obs := make([]*posterior.Observation, len(groups))
	for i, g := range groups {
		if g.Successes > s.config.TotalTagged {
			return nil, errors.NewInvalidParameterError("successes", g.Successes,
				fmt.Sprintf("exceeds total tagged %d in group %d", s.config.TotalTagged, i))
		}
		o, err := posterior.NewObservation(s.config.PriorSuccesses, s.config.PriorFailures,
			g.Trials, g.Successes)
		if err != nil {
			return nil, err
		}
		obs[i] = o
	}
	return obs, nil
}

func (s *Survey) recordGroupErr(gr *GroupReport, quantity string, err error) {
	gr.Errors = append(gr.Errors, fmt.Sprintf("%s: %s", quantity, err))
	s.rec.RecordError(quantity, err)
	s.logger.Error("failed to estimate group",
		zap.Int("group", gr.Index),
		zap.String(quantityLabel, quantity),
		zap.String(kindLabel, errors.Kind(err)),
		zap.Error(err),
	)
}

// nodeErr returns the error for the given node if err holds node errors, or err otherwise.
func nodeErr(err error, node int) error {
	if nodeErrs, ok := err.(*hpd.NodeErrors); ok {
		if nErr := nodeErrs.Get(node); nErr != nil {
			return nErr
		}
	}
	return err
}
