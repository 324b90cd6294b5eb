package cmd

import (
	"io"
	"os"

	cerrors "github.com/drausin/recapture/recapture/common/errors"
	clogging "github.com/drausin/recapture/recapture/common/logging"
	"github.com/drausin/recapture/recapture/common/parse"
	"github.com/drausin/recapture/recapture/hpd"
	"github.com/drausin/recapture/recapture/posterior"
	"github.com/drausin/recapture/recapture/survey"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	totalTaggedFlag    = "totalTagged"
	caughtFlag         = "caught"
	taggedFlag         = "tagged"
	groupsFlag         = "groups"
	nSamplesFlag       = "nSamples"
	credibleMassFlag   = "credibleMass"
	seedFlag           = "seed"
	priorSuccessesFlag = "priorSuccesses"
	priorFailuresFlag  = "priorFailures"
	parallelismFlag    = "parallelism"
	formatFlag         = "format"
	metricsFileFlag    = "metricsFile"
	logLevelFlag       = "logLevel"
	prodLogsFlag       = "prodLogs"
)

var (
	errMissingGroups  = errors.New("missing groups: set --caught and --tagged, or --groups")
	errEstimateFailed = errors.New("one or more estimates failed")
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "estimate the tagged proportion and population size",
	Long: `estimate samples the Beta posterior of the tagged proportion for each recapture
group and reports its mean and HPD interval, along with those of the population size implied by
the total number of tagged individuals.

Example:

	recapture estimate --totalTagged 68 --caught 219 --tagged 16`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(os.Stdout)
	},
}

func init() {
	RootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().Int64P(totalTaggedFlag, "m", 0,
		"total number of tagged individuals in the population")
	estimateCmd.Flags().Int64P(caughtFlag, "c", 0,
		"number of individuals caught in the recapture group")
	estimateCmd.Flags().Int64P(taggedFlag, "t", 0,
		"number of caught individuals that carried a tag")
	estimateCmd.Flags().StringSliceP(groupsFlag, "g", nil,
		"comma-separated caught:tagged counts of several recapture groups (e.g., 219:16,150:12)")
	estimateCmd.Flags().IntP(nSamplesFlag, "n", survey.DefaultNSamples,
		"number of posterior draws per group")
	estimateCmd.Flags().Float64P(credibleMassFlag, "p", hpd.DefaultCredibleMass,
		"posterior probability mass of each HPD interval")
	estimateCmd.Flags().Uint64P(seedFlag, "s", 0,
		"seed of the posterior random source")
	estimateCmd.Flags().Int64(priorSuccessesFlag, posterior.DefaultPriorSuccesses,
		"Beta prior pseudo-count of tagged catches")
	estimateCmd.Flags().Int64(priorFailuresFlag, posterior.DefaultPriorFailures,
		"Beta prior pseudo-count of untagged catches")
	estimateCmd.Flags().Uint32(parallelismFlag, hpd.DefaultParallelism,
		"number of groups to estimate intervals for in parallel")
	estimateCmd.Flags().StringP(formatFlag, "f", survey.TextFormat,
		"report format (text, json, or yaml)")
	estimateCmd.Flags().String(metricsFileFlag, "",
		"file to write Prometheus metrics to in text exposition format")
	estimateCmd.Flags().StringP(logLevelFlag, "l", zap.InfoLevel.String(),
		"log level")
	estimateCmd.Flags().Bool(prodLogsFlag, false,
		"log JSON lines to stderr instead of human-readable development logs")

	// bind viper flags
	viper.SetEnvPrefix(envVarPrefix) // look for env vars with "RECAPTURE_" prefix
	viper.AutomaticEnv()             // read in environment variables that match
	if err := viper.BindPFlags(estimateCmd.Flags()); err != nil {
		panic(err)
	}
}

func runEstimate(out io.Writer) error {
	config, logger, err := getSurveyConfig()
	if err != nil {
		return err
	}
	groups, err := getGroups()
	if err != nil {
		logger.Error("unable to parse groups", zap.Error(err))
		return err
	}
	format := viper.GetString(formatFlag)
	if err := survey.CheckFormat(format); err != nil {
		return err
	}

	registry := prom.NewRegistry()
	rec := survey.NewPromScalarRecorder()
	cerrors.MaybePanic(rec.Register(registry)) // should never happen with a new registry
	defer rec.Unregister(registry)

	s, err := survey.New(config, logger, rec)
	if err != nil {
		return err
	}
	report, err := s.Run(groups)
	if err != nil {
		return err
	}
	if err := report.Write(out, format); err != nil {
		return err
	}
	if metricsFile := viper.GetString(metricsFileFlag); metricsFile != "" {
		if err := prom.WriteToTextfile(metricsFile, registry); err != nil {
			return err
		}
		logger.Debug("wrote metrics", zap.String(metricsFileFlag, metricsFile))
	}
	if report.Failed() {
		return errEstimateFailed
	}
	return nil
}

func getSurveyConfig() (*survey.Config, *zap.Logger, error) {
	logLevel, err := getLogLevel()
	if err != nil {
		return nil, nil, err
	}
	config := survey.NewDefaultConfig().
		WithTotalTagged(viper.GetInt64(totalTaggedFlag)).
		WithPrior(viper.GetInt64(priorSuccessesFlag), viper.GetInt64(priorFailuresFlag)).
		WithNSamples(viper.GetInt(nSamplesFlag)).
		WithCredibleMass(viper.GetFloat64(credibleMassFlag)).
		WithSeed(viper.GetUint64(seedFlag)).
		WithParallelism(viper.GetUint32(parallelismFlag)).
		WithLogLevel(logLevel)

	logger := clogging.NewLogger(config.LogLevel, viper.GetBool(prodLogsFlag))
	logger.Info("survey configuration",
		zap.Int64(totalTaggedFlag, config.TotalTagged),
		zap.Int64(priorSuccessesFlag, config.PriorSuccesses),
		zap.Int64(priorFailuresFlag, config.PriorFailures),
		zap.Int(nSamplesFlag, config.NSamples),
		zap.Float64(credibleMassFlag, config.CredibleMass),
		zap.Uint64(seedFlag, config.Seed),
		zap.Uint32(parallelismFlag, config.Parallelism),
		zap.Stringer(logLevelFlag, config.LogLevel),
		zap.Bool(prodLogsFlag, viper.GetBool(prodLogsFlag)),
	)
	return config, logger, nil
}

// getGroups returns the --groups counts if given, otherwise the single --caught and --tagged
// group.
func getGroups() ([]*parse.Counts, error) {
	if groups := viper.GetStringSlice(groupsFlag); len(groups) > 0 {
		return parse.Groups(groups)
	}
	caught := viper.GetInt64(caughtFlag)
	if caught < 1 {
		return nil, errMissingGroups
	}
	return []*parse.Counts{{Trials: caught, Successes: viper.GetInt64(taggedFlag)}}, nil
}

func getLogLevel() (zapcore.Level, error) {
	var ll zapcore.Level
	err := ll.Set(viper.GetString(logLevelFlag))
	return ll, err
}

