package dpcfg

import (
	"testing"
	"time"

	"github.com/osprey-dcs/dp-client-go/mcfg"
	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallDefaults(t *testing.T) {
	cmp := new(mcmp.Component)
	cfg := Install(cmp)

	require.NoError(t, mcfg.Populate(cmp, mcfg.Sources{}))

	assert.Equal(t, 30*time.Second, cfg.Query.TimeoutLimit.Duration)
	assert.False(t, *cfg.Query.LoggingEnabled)
	assert.Equal(t, "info", *cfg.Query.LoggingLevel)
	assert.Equal(t, 4, *cfg.Query.ConcurrencyMaxThreads)
	assert.Equal(t, 256, *cfg.Query.ConcurrencyPivotSize)

	assert.Equal(t, 1, *cfg.Ingestion.Streams)
	assert.Equal(t, 0, *cfg.Ingestion.MaxRequestSize)
}

func TestInstallFromEnv(t *testing.T) {
	cmp := new(mcmp.Component)
	cfg := Install(cmp)

	src := &mcfg.SourceEnv{Env: []string{
		"QUERY_TIMEOUT_LIMIT=5s",
		"QUERY_LOGGING_ENABLED=true",
		"INGESTION_STREAM_COUNT=3",
	}}
	require.NoError(t, mcfg.Populate(cmp, src))

	assert.Equal(t, 5*time.Second, cfg.Query.TimeoutLimit.Duration)
	assert.True(t, *cfg.Query.LoggingEnabled)
	assert.Equal(t, 3, *cfg.Ingestion.Streams)
}

func TestInstallFromYAML(t *testing.T) {
	cmp := new(mcmp.Component)
	cfg := Install(cmp)

	doc := []byte(`
query:
  timeout:
    limit: "10s"
  logging:
    enabled: true
ingestion:
  stream:
    count: 5
`)
	require.NoError(t, mcfg.Populate(cmp, &mcfg.SourceYAML{Bytes: doc}))

	assert.Equal(t, 10*time.Second, cfg.Query.TimeoutLimit.Duration)
	assert.True(t, *cfg.Query.LoggingEnabled)
	assert.Equal(t, 5, *cfg.Ingestion.Streams)
}
