package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "production", "PROD", ""} {
		log, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, log.SugaredLogger)
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("component", "recipes").Warn("ingredient rows rejected", "row", 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ingredient rows rejected", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "recipes", fields["component"])
	assert.EqualValues(t, 2, fields["row"])
}
