package dpquery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/osprey-dcs/dp-client-go/dptable"
	"github.com/osprey-dcs/dp-client-go/dptime"
)

// Bucket is a single source's raw sample values over the timestamp axis
// described by Descriptor.
type Bucket struct {
	SourceID   string
	Descriptor dptime.Descriptor
	Kind       dptable.Kind
	Values     []interface{}
}

func (b Bucket) validate() error {
	if b.Descriptor == nil || len(b.Values) != b.Descriptor.Len() {
		return ErrMalformedBucket
	}
	return nil
}

// CorrelatedSet is a collection of Buckets, all sharing the same Descriptor
// equivalence class, with each source appearing at most once.
type CorrelatedSet struct {
	Descriptor dptime.Descriptor
	buckets    map[string]Bucket
}

func newCorrelatedSet(desc dptime.Descriptor) *CorrelatedSet {
	return &CorrelatedSet{Descriptor: desc, buckets: map[string]Bucket{}}
}

// Insert adds b to the set. It returns ErrMalformedBucket if b fails
// self-validation, its Descriptor isn't equivalent to the set's, or its
// source already has a Bucket in this set.
func (cs *CorrelatedSet) Insert(b Bucket) error {
	if err := b.validate(); err != nil {
		return err
	}
	if !cs.Descriptor.Equal(b.Descriptor) {
		return ErrMalformedBucket
	}
	if _, exists := cs.buckets[b.SourceID]; exists {
		return ErrMalformedBucket
	}
	cs.buckets[b.SourceID] = b
	return nil
}

// Sources returns the source IDs present in the set, sorted for determinism.
func (cs *CorrelatedSet) Sources() []string {
	out := make([]string, 0, len(cs.buckets))
	for s := range cs.buckets {
		out = append(out, s)
	}
	sortStrings(out)
	return out
}

// Bucket returns the Bucket for the given source, if present.
func (cs *CorrelatedSet) Bucket(source string) (Bucket, bool) {
	b, ok := cs.buckets[source]
	return b, ok
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

func descKey(d dptime.Descriptor) string {
	switch dd := d.(type) {
	case dptime.Clock:
		return fmt.Sprintf("clock:%d:%d:%d", dd.Start_.UnixNano(), dd.Period.Duration, dd.Count)
	case dptime.ExplicitList:
		var sb strings.Builder
		sb.WriteString("list:")
		for _, ts := range dd.Instants_ {
			fmt.Fprintf(&sb, "%d,", ts.UnixNano())
		}
		return sb.String()
	default:
		var sb strings.Builder
		sb.WriteString("generic:")
		for _, ts := range d.Instants() {
			fmt.Fprintf(&sb, "%d,", ts.UnixNano())
		}
		return sb.String()
	}
}

// Correlator groups incoming Buckets into CorrelatedSets keyed by
// Descriptor equivalence. MaxThreadCount and ConcurrencyPivotSize are
// live-tunable via their setters: when the number of Buckets given to
// CorrelateAll meets or exceeds ConcurrencyPivotSize, validation work is
// fanned out across up to MaxThreadCount goroutines.
type Correlator struct {
	l    sync.Mutex
	sets map[string]*CorrelatedSet
	keys []string // insertion order of sets, for deterministic output

	maxThreadCount      int32
	concurrencyPivotSize int32
}

// NewCorrelator constructs an empty Correlator with default concurrency
// knobs (MaxThreadCount=4, ConcurrencyPivotSize=256).
func NewCorrelator() *Correlator {
	c := &Correlator{sets: map[string]*CorrelatedSet{}}
	c.SetMaxThreadCount(4)
	c.SetConcurrencyPivotSize(256)
	return c
}

// SetMaxThreadCount updates the maximum number of goroutines CorrelateAll
// will use to validate Buckets. Safe to call concurrently with CorrelateAll.
func (c *Correlator) SetMaxThreadCount(n int) {
	if n < 1 {
		n = 1
	}
	atomic.StoreInt32(&c.maxThreadCount, int32(n))
}

// SetConcurrencyPivotSize updates the Bucket-count threshold at or above
// which CorrelateAll parallelizes validation; 0 disables parallelism. Safe to call concurrently with
// CorrelateAll.
func (c *Correlator) SetConcurrencyPivotSize(n int) {
	if n < 0 {
		n = 0
	}
	atomic.StoreInt32(&c.concurrencyPivotSize, int32(n))
}

// Insert adds a single Bucket to the matching CorrelatedSet, creating one if
// none yet exists for its Descriptor's equivalence class.
func (c *Correlator) Insert(b Bucket) error {
	if err := b.validate(); err != nil {
		return err
	}

	c.l.Lock()
	defer c.l.Unlock()
	key := descKey(b.Descriptor)
	set, ok := c.sets[key]
	if !ok {
		set = newCorrelatedSet(b.Descriptor)
		c.sets[key] = set
		c.keys = append(c.keys, key)
	}
	return set.Insert(b)
}

// CorrelateAll validates and inserts every Bucket in bs. Buckets are
// validated independently (possibly in parallel, per the concurrency
// knobs), then inserted serially to preserve the at-most-one-per-source
// invariant. The first error encountered, from validation or insertion,
// aborts the remainder and is returned.
func (c *Correlator) CorrelateAll(ctx context.Context, bs []Bucket) error {
	pivot := int(atomic.LoadInt32(&c.concurrencyPivotSize))
	if len(bs) >= pivot && pivot > 0 {
		threads := int(atomic.LoadInt32(&c.maxThreadCount))
		eg, _ := errgroup.WithContext(ctx)
		eg.SetLimit(threads)
		for i := range bs {
			b := bs[i]
			eg.Go(func() error { return b.validate() })
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}

	for _, b := range bs {
		if err := c.Insert(b); err != nil {
			return err
		}
	}
	return nil
}

// Sets returns every CorrelatedSet produced so far, in the order their
// Descriptor equivalence class was first seen.
func (c *Correlator) Sets() []*CorrelatedSet {
	c.l.Lock()
	defer c.l.Unlock()
	out := make([]*CorrelatedSet, len(c.keys))
	for i, k := range c.keys {
		out[i] = c.sets[k]
	}
	return out
}
