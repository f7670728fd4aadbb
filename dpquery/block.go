package dpquery

import (
	"sync/atomic"
	"time"

	"github.com/osprey-dcs/dp-client-go/dptable"
	"github.com/osprey-dcs/dp-client-go/dptime"
)

var blockIDSeq uint64

func nextBlockID() uint64 {
	return atomic.AddUint64(&blockIDSeq, 1)
}

// Block is a sampled block: a correlated, per-source columnar view over a
// single Descriptor's timestamp axis.
type Block interface {
	// ID is a monotonically increasing creation-order identifier, used as
	// the final tie-break when ordering blocks with identical start and end
	// instants.
	ID() uint64

	Descriptor() dptime.Descriptor

	// Sources returns every source ID present in the block, sorted.
	Sources() []string

	// Column returns the named source's column, if present.
	Column(source string) (dptable.Column, bool)
}

type block struct {
	id   uint64
	desc dptime.Descriptor
	cols map[string]dptable.Column
}

func (b *block) ID() uint64                    { return b.id }
func (b *block) Descriptor() dptime.Descriptor { return b.desc }

func (b *block) Sources() []string {
	out := make([]string, 0, len(b.cols))
	for s := range b.cols {
		out = append(out, s)
	}
	sortStrings(out)
	return out
}

func (b *block) Column(source string) (dptable.Column, bool) {
	c, ok := b.cols[source]
	return c, ok
}

// ClockedBlock is a Block whose Descriptor is a dptime.Clock.
type ClockedBlock struct{ *block }

// ExplicitListBlock is a Block whose Descriptor is a dptime.ExplicitList
// that was not produced by fusing multiple distinct Descriptors.
type ExplicitListBlock struct{ *block }

// SuperDomainBlock is a Block produced by fusing Buckets drawn from more
// than one distinct Descriptor equivalence class: its Descriptor is the
// union, in ascending order, of every contributing instant, and any source
// lacking a sample at a given instant has that cell filled with the
// Absent sentinel for its Kind.
type SuperDomainBlock struct{ *block }

// Coalesce converts a single CorrelatedSet into a Block. The result is a
// ClockedBlock or ExplicitListBlock according to the set's Descriptor type.
func Coalesce(cs *CorrelatedSet) Block {
	cols := make(map[string]dptable.Column, len(cs.buckets))
	for source, b := range cs.buckets {
		cols[source] = dptable.Column{Name: source, Kind: b.Kind, Values: b.Values}
	}
	bk := &block{id: nextBlockID(), desc: cs.Descriptor, cols: cols}

	if _, ok := cs.Descriptor.(dptime.Clock); ok {
		return ClockedBlock{bk}
	}
	return ExplicitListBlock{bk}
}

// CoalesceAll converts every CorrelatedSet produced by a Correlator into a
// Block, preserving the Correlator's Sets order.
func CoalesceAll(sets []*CorrelatedSet) []Block {
	out := make([]Block, len(sets))
	for i, cs := range sets {
		out[i] = Coalesce(cs)
	}
	return out
}

// Fuse combines CorrelatedSets drawn from more than one distinct Descriptor
// equivalence class into a single SuperDomainBlock. The resulting
// Descriptor is the ascending-order union of every contributing instant;
// any (source, instant) pair not covered by one of the sets is filled with
// that source's Absent sentinel.
func Fuse(sets []*CorrelatedSet) (Block, error) {
	if len(sets) == 0 {
		return nil, ErrAggregateIntegrity
	}

	kinds := map[string]dptable.Kind{}
	perSource := map[string]map[int64]interface{}{}
	instantSet := map[int64]struct{}{}

	for _, cs := range sets {
		instants := cs.Descriptor.Instants()
		for source, b := range cs.buckets {
			if existing, ok := kinds[source]; ok && existing != b.Kind {
				return nil, ErrInconsistentSourceType
			}
			kinds[source] = b.Kind
			m, ok := perSource[source]
			if !ok {
				m = map[int64]interface{}{}
				perSource[source] = m
			}
			for i, ts := range instants {
				nanos := ts.UnixNano()
				instantSet[nanos] = struct{}{}
				m[nanos] = b.Values[i]
			}
		}
	}

	nanos := make([]int64, 0, len(instantSet))
	for n := range instantSet {
		nanos = append(nanos, n)
	}
	sortInt64s(nanos)

	times := make([]time.Time, len(nanos))
	for i, n := range nanos {
		times[i] = time.Unix(0, n)
	}
	desc := dptime.NewExplicitList(times...)

	cols := make(map[string]dptable.Column, len(perSource))
	for source, m := range perSource {
		kind := kinds[source]
		absent := dptable.Column{Kind: kind}.AbsentValue()
		vals := make([]interface{}, len(nanos))
		for i, n := range nanos {
			if v, ok := m[n]; ok {
				vals[i] = v
			} else {
				vals[i] = absent
			}
		}
		cols[source] = dptable.Column{Name: source, Kind: kind, Values: vals}
	}

	return SuperDomainBlock{&block{id: nextBlockID(), desc: desc, cols: cols}}, nil
}

func sortInt64s(ns []int64) {
	for i := 1; i < len(ns); i++ {
		for j := i; j > 0 && ns[j-1] > ns[j]; j-- {
			ns[j-1], ns[j] = ns[j], ns[j-1]
		}
	}
}
