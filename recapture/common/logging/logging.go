package logging

import (
	"sort"

	"github.com/drausin/recapture/recapture/common/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDevLogger creates a new logger with a given log level for use in development (i.e., not
// production).
func NewDevLogger(logLevel zapcore.Level) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.DisableCaller = true
	config.Level.SetLevel(logLevel)

	logger, err := config.Build()
	errors.MaybePanic(err)
	return logger
}

// NewProdLogger creates a new logger with a given log level for use in production. It writes
// unsampled JSON lines with ISO8601 timestamps to stderr, leaving stdout to reports.
func NewProdLogger(logLevel zapcore.Level) *zap.Logger {
	logger, err := newProdConfig(logLevel).Build()
	errors.MaybePanic(err)
	return logger
}

func newProdConfig(logLevel zapcore.Level) zap.Config {
	config := zap.NewProductionConfig()
	config.Level.SetLevel(logLevel)
	config.Sampling = nil
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	return config
}

// NewLogger creates a production logger if prod is set and a development logger otherwise.
func NewLogger(logLevel zapcore.Level, prod bool) *zap.Logger {
	if prod {
		return NewProdLogger(logLevel)
	}
	return NewDevLogger(logLevel)
}

// ErrArray is an array of errors
type ErrArray []error

// ToErrArray converts a map of node errors to an array of errors ordered by node index.
func ToErrArray(errMap map[int]error) ErrArray {
	nodes := make([]int, 0, len(errMap))
	for node := range errMap {
		nodes = append(nodes, node)
	}
	sort.Ints(nodes)
	errArray := make([]error, len(nodes))
	for i, node := range nodes {
		errArray[i] = errMap[node]
	}
	return errArray
}

// MarshalLogArray marshals the array of errors.
func (errs ErrArray) MarshalLogArray(arr zapcore.ArrayEncoder) error {
	for _, err := range errs {
		arr.AppendString(err.Error())
	}
	return nil
}
