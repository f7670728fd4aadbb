package dpquery

import (
	"time"

	"github.com/osprey-dcs/dp-client-go/mtime"

	"github.com/osprey-dcs/dp-client-go/dptable"
	"github.com/osprey-dcs/dp-client-go/dptime"
)

// Assemble orders blocks by start instant (tie-broken by end instant, then
// by ID), fuses overlapping adjacent blocks to a fixpoint, verifies the
// result's source-type consistency and ordering/disjointness, and projects
// it into a Table: a concatenation of every block's timestamp axis and, for
// each source, a concatenation of its per-block column with Absent padding
// wherever a block lacks that source.
func Assemble(blocks []Block) (*dptable.Table, error) {
	if len(blocks) == 0 {
		return dptable.New(nil, nil)
	}

	ordered := append([]Block{}, blocks...)
	sortBlocks(ordered)

	fused, err := fuseToFixpoint(ordered)
	if err != nil {
		return nil, err
	}

	if err := verifyIntegrity(fused); err != nil {
		return nil, err
	}

	return buildTable(fused)
}

func sortBlocks(blocks []Block) {
	less := func(i, j int) bool {
		a, b := blocks[i].Descriptor(), blocks[j].Descriptor()
		if !a.Start().Time.Equal(b.Start().Time) {
			return a.Start().Time.Before(b.Start().Time)
		}
		if !a.End().Time.Equal(b.End().Time) {
			return a.End().Time.Before(b.End().Time)
		}
		return blocks[i].ID() < blocks[j].ID()
	}
	for i := 1; i < len(blocks); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			blocks[j], blocks[j-1] = blocks[j-1], blocks[j]
		}
	}
}

func overlaps(a, b Block) bool {
	ae, bs := a.Descriptor().End(), b.Descriptor().Start()
	return !ae.Time.Before(bs.Time)
}

func fuseToFixpoint(blocks []Block) ([]Block, error) {
	for {
		changed := false
		for i := 0; i < len(blocks)-1; i++ {
			if !overlaps(blocks[i], blocks[i+1]) {
				continue
			}
			fused, err := fuseBlocks(blocks[i], blocks[i+1])
			if err != nil {
				return nil, err
			}
			next := append([]Block{}, blocks[:i]...)
			next = append(next, fused)
			next = append(next, blocks[i+2:]...)
			blocks = next
			changed = true
			break
		}
		if !changed {
			return blocks, nil
		}
	}
}

func fuseBlocks(a, b Block) (Block, error) {
	kinds := map[string]dptable.Kind{}
	perSource := map[string]map[int64]interface{}{}
	instantSet := map[int64]struct{}{}

	for _, blk := range [2]Block{a, b} {
		instants := blk.Descriptor().Instants()
		for _, source := range blk.Sources() {
			col, _ := blk.Column(source)
			if existing, ok := kinds[source]; ok && existing != col.Kind {
				return nil, ErrInconsistentSourceType
			}
			kinds[source] = col.Kind
			m, ok := perSource[source]
			if !ok {
				m = map[int64]interface{}{}
				perSource[source] = m
			}
			for i, ts := range instants {
				nanos := ts.UnixNano()
				instantSet[nanos] = struct{}{}
				m[nanos] = col.Values[i]
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

func verifyIntegrity(blocks []Block) error {
	kinds := map[string]dptable.Kind{}
	for i, blk := range blocks {
		for _, source := range blk.Sources() {
			col, _ := blk.Column(source)
			if existing, ok := kinds[source]; ok && existing != col.Kind {
				return ErrInconsistentSourceType
			}
			kinds[source] = col.Kind
		}
		if i > 0 && overlaps(blocks[i-1], blk) {
			return ErrAggregateIntegrity
		}
	}
	return nil
}

func buildTable(blocks []Block) (*dptable.Table, error) {
	var rows []mtime.TS
	sourceOrder := []string{}
	sourceSeen := map[string]bool{}
	kinds := map[string]dptable.Kind{}
	blockLens := make([]int, len(blocks))

	for bi, blk := range blocks {
		instants := blk.Descriptor().Instants()
		blockLens[bi] = len(instants)
		for _, ts := range instants {
			rows = append(rows, ts)
		}
		for _, source := range blk.Sources() {
			if !sourceSeen[source] {
				sourceSeen[source] = true
				sourceOrder = append(sourceOrder, source)
			}
			col, _ := blk.Column(source)
			kinds[source] = col.Kind
		}
	}

	cols := make([]dptable.Column, len(sourceOrder))
	for ci, source := range sourceOrder {
		kind := kinds[source]
		absent := dptable.Column{Kind: kind}.AbsentValue()
		vals := make([]interface{}, 0, len(rows))
		for bi, blk := range blocks {
			col, ok := blk.Column(source)
			if !ok {
				for j := 0; j < blockLens[bi]; j++ {
					vals = append(vals, absent)
				}
				continue
			}
			vals = append(vals, col.Values...)
		}
		cols[ci] = dptable.Column{Name: source, Kind: kind, Values: vals}
	}

	return dptable.New(rows, cols)
}
