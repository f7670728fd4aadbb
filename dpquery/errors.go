// Package dpquery implements the query-side assembly pipeline: correlating
// raw data buckets into correlated sets (C5), coalescing each set into a
// sampled block (C6), and assembling an ordered run of blocks into a
// sampled aggregate and its projected data table (C7).
package dpquery

import "errors"

// ErrMalformedBucket indicates a raw data bucket's value count didn't match
// its descriptor's length, or it could not be inserted into a correlated
// set (e.g. its source already appears in that set, or its descriptor
// doesn't match the set's).
var ErrMalformedBucket = errors.New("dpquery: malformed raw data bucket")

// ErrInconsistentSourceType indicates the same source reported columns of
// different Kind across blocks being assembled together.
var ErrInconsistentSourceType = errors.New("dpquery: inconsistent source type across blocks")

// ErrAggregateIntegrity indicates the blocks given to Assemble could not be
// placed into a single well-ordered, disjoint (post-fusion) sequence.
var ErrAggregateIntegrity = errors.New("dpquery: aggregate integrity violation")
