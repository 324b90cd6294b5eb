package logging

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewDevLogger(t *testing.T) {
	l := NewDevLogger(zap.DebugLevel)
	assert.NotNil(t, l)
}

func TestNewProdLogger(t *testing.T) {
	l := NewProdLogger(zap.InfoLevel)
	assert.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))

	config := newProdConfig(zap.WarnLevel)
	assert.Equal(t, "json", config.Encoding)
	assert.Nil(t, config.Sampling)
	assert.Equal(t, []string{"stderr"}, config.OutputPaths)
	assert.Equal(t, zap.WarnLevel, config.Level.Level())
}

func TestNewLogger(t *testing.T) {
	for _, prod := range []bool{true, false} {
		l := NewLogger(zap.ErrorLevel, prod)
		assert.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zap.ErrorLevel))
		assert.False(t, l.Core().Enabled(zap.InfoLevel))
	}
}

func TestToErrArray(t *testing.T) {
	nErrs := 3
	errMap := make(map[int]error)
	for i := nErrs - 1; i >= 0; i-- {
		errMap[i*2] = fmt.Errorf("error %d", i)
	}
	errs := ToErrArray(errMap)
	assert.Equal(t, nErrs, len(errs))
	for i, err := range errs {
		assert.Equal(t, fmt.Sprintf("error %d", i), err.Error())
	}
}

func TestErrArray_MarshalLogArray(t *testing.T) {
	errs := ErrArray{errors.New("error 1"), errors.New("error 2"), errors.New("error 3")}
	oe := zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()).(zapcore.ArrayEncoder)
	err := errs.MarshalLogArray(oe)
	assert.Nil(t, err)
}
