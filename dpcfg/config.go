// Package dpcfg wires the process-wide configuration surface for the data
// plane library: a single set of parameters, added under two Component
// subtrees ("query" and "ingestion"), populated once via mcfg against
// whichever combination of mcfg.SourceCLI, mcfg.SourceEnv, and
// mcfg.SourceYAML the caller chooses.
package dpcfg

import (
	"github.com/osprey-dcs/dp-client-go/mcfg"
	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/osprey-dcs/dp-client-go/mtime"
)

// QueryConfig holds the query-pipeline's tunable parameters.
type QueryConfig struct {
	TimeoutLimit *mtime.Duration

	LoggingEnabled *bool
	LoggingLevel   *string

	ConcurrencyEnabled   *bool
	ConcurrencyMaxThreads *int
	ConcurrencyPivotSize  *int
}

// IngestionConfig holds the ingestion-pipeline's tunable parameters.
type IngestionConfig struct {
	TimeoutLimit *mtime.Duration

	LoggingEnabled *bool
	LoggingLevel   *string

	ConcurrencyEnabled    *bool
	ConcurrencyMaxThreads *int

	Streams        *int
	MaxRequestSize *int
}

// Config is the full set of configuration parameters for both pipelines,
// rooted at a single Component.
type Config struct {
	Query     QueryConfig
	Ingestion IngestionConfig
}

// Install adds every Config parameter onto cmp (under "query" and
// "ingestion" child Components) and returns the Config. Values are not
// populated until mcfg.Populate is subsequently run against cmp.
func Install(cmp *mcmp.Component) *Config {
	queryCmp := cmp.Child("query")
	timeoutCmp := queryCmp.Child("timeout")
	loggingCmp := queryCmp.Child("logging")
	concCmp := queryCmp.Child("concurrency")

	q := QueryConfig{
		TimeoutLimit:          mcfg.Duration(timeoutCmp, "limit", mtime.Duration{Duration: defaultQueryTimeout}, "Maximum time to wait for a query RPC to complete."),
		LoggingEnabled:        mcfg.Bool(loggingCmp, "enabled", "Enable query pipeline logging."),
		LoggingLevel:          mcfg.String(loggingCmp, "level", "info", "Minimum severity of query pipeline log messages."),
		ConcurrencyEnabled:    mcfg.Bool(concCmp, "enabled", "Enable parallel correlation of raw data buckets."),
		ConcurrencyMaxThreads: mcfg.Int(concCmp, "maxthreads", 4, "Maximum goroutines used to correlate raw data buckets."),
		ConcurrencyPivotSize:  mcfg.Int(concCmp, "pivotsize", 256, "Bucket count at or above which correlation is parallelized."),
	}

	ingestCmp := cmp.Child("ingestion")
	iTimeoutCmp := ingestCmp.Child("timeout")
	iLoggingCmp := ingestCmp.Child("logging")
	iConcCmp := ingestCmp.Child("concurrency")
	iStreamCmp := ingestCmp.Child("stream")

	i := IngestionConfig{
		TimeoutLimit:          mcfg.Duration(iTimeoutCmp, "limit", mtime.Duration{Duration: defaultIngestionTimeout}, "Maximum time to wait for an ingestion RPC to complete."),
		LoggingEnabled:        mcfg.Bool(iLoggingCmp, "enabled", "Enable ingestion pipeline logging."),
		LoggingLevel:          mcfg.String(iLoggingCmp, "level", "info", "Minimum severity of ingestion pipeline log messages."),
		ConcurrencyEnabled:    mcfg.Bool(iConcCmp, "enabled", "Enable a round-robin worker pool for frame conversion."),
		ConcurrencyMaxThreads: mcfg.Int(iConcCmp, "maxthreads", 4, "Maximum goroutines used to convert decomposed ingestion pieces."),
		Streams:               mcfg.Int(iStreamCmp, "count", 1, "Number of parallel streams to open against the Ingestion Service."),
		MaxRequestSize:        mcfg.Int(iStreamCmp, "maxrequestsize", 0, "Maximum estimated request size before a frame is decomposed; 0 disables decomposition."),
	}

	return &Config{Query: q, Ingestion: i}
}
