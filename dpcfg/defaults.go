package dpcfg

import "time"

const (
	defaultQueryTimeout     = 30 * time.Second
	defaultIngestionTimeout = 30 * time.Second
)
