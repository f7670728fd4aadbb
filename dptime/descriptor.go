// Package dptime implements the timestamp descriptor types shared by the
// ingestion and query pipelines: a uniform clock (start instant, period,
// sample count) and an explicit ordered list of instants.
package dptime

import (
	"time"

	"github.com/osprey-dcs/dp-client-go/mtime"
)

// Descriptor identifies the timestamp axis of an ingestion frame, a raw data
// bucket, or a sampled block. The two implementations, Clock and
// ExplicitList, are compared for equality with Equal and enumerated in full
// with Instants.
type Descriptor interface {
	// Len returns the number of instants described.
	Len() int

	// Instants returns every instant described, in order. For a Clock this
	// materializes the full series; callers on a hot path should prefer Len
	// and Equal where possible to avoid the allocation.
	Instants() []mtime.TS

	// Equal reports whether the other Descriptor describes the same
	// timestamps using the same representation.
	Equal(other Descriptor) bool

	// Start returns the first instant described, or the zero TS if Len is 0.
	Start() mtime.TS

	// End returns the last instant described, or the zero TS if Len is 0.
	End() mtime.TS
}

// Clock is a Descriptor representing a uniform series of instants: Count
// samples starting at Start and spaced Period apart. Two Clocks are Equal iff
// all three fields are bitwise equal.
type Clock struct {
	Start_ mtime.TS        `json:"start"`
	Period mtime.Duration  `json:"period"`
	Count  int             `json:"count"`
}

// NewClock constructs a Clock from a starting instant, sample period, and
// sample count.
func NewClock(start time.Time, period time.Duration, count int) Clock {
	return Clock{
		Start_: mtime.NewTS(start),
		Period: mtime.Duration{Duration: period},
		Count:  count,
	}
}

// Len implements the method for the Descriptor interface.
func (c Clock) Len() int { return c.Count }

// Instants implements the method for the Descriptor interface.
func (c Clock) Instants() []mtime.TS {
	out := make([]mtime.TS, c.Count)
	t := c.Start_.Time
	for i := 0; i < c.Count; i++ {
		out[i] = mtime.NewTS(t)
		t = t.Add(c.Period.Duration)
	}
	return out
}

// Equal implements the method for the Descriptor interface.
func (c Clock) Equal(other Descriptor) bool {
	oc, ok := other.(Clock)
	if !ok {
		return false
	}
	return c.Start_.Time.Equal(oc.Start_.Time) &&
		c.Period.Duration == oc.Period.Duration &&
		c.Count == oc.Count
}

// Start implements the method for the Descriptor interface.
func (c Clock) Start() mtime.TS {
	return c.Start_
}

// End implements the method for the Descriptor interface.
func (c Clock) End() mtime.TS {
	if c.Count == 0 {
		return mtime.TS{}
	}
	return mtime.NewTS(c.Start_.Time.Add(time.Duration(c.Count-1) * c.Period.Duration))
}

// ExplicitList is a Descriptor representing an arbitrary ordered sequence of
// instants. Two ExplicitLists are Equal iff they have equal length and equal
// instants in the same order.
type ExplicitList struct {
	Instants_ []mtime.TS `json:"instants"`
}

// NewExplicitList constructs an ExplicitList from the given instants, which
// are assumed to already be in the desired order.
func NewExplicitList(instants ...time.Time) ExplicitList {
	ts := make([]mtime.TS, len(instants))
	for i, t := range instants {
		ts[i] = mtime.NewTS(t)
	}
	return ExplicitList{Instants_: ts}
}

// Len implements the method for the Descriptor interface.
func (e ExplicitList) Len() int { return len(e.Instants_) }

// Instants implements the method for the Descriptor interface.
func (e ExplicitList) Instants() []mtime.TS {
	out := make([]mtime.TS, len(e.Instants_))
	copy(out, e.Instants_)
	return out
}

// Equal implements the method for the Descriptor interface.
func (e ExplicitList) Equal(other Descriptor) bool {
	oe, ok := other.(ExplicitList)
	if !ok || len(e.Instants_) != len(oe.Instants_) {
		return false
	}
	for i := range e.Instants_ {
		if !e.Instants_[i].Time.Equal(oe.Instants_[i].Time) {
			return false
		}
	}
	return true
}

// Start implements the method for the Descriptor interface.
func (e ExplicitList) Start() mtime.TS {
	if len(e.Instants_) == 0 {
		return mtime.TS{}
	}
	return e.Instants_[0]
}

// End implements the method for the Descriptor interface.
func (e ExplicitList) End() mtime.TS {
	if len(e.Instants_) == 0 {
		return mtime.TS{}
	}
	return e.Instants_[len(e.Instants_)-1]
}
