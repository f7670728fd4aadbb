package mcfg

import (
	"encoding/json"

	"github.com/osprey-dcs/dp-client-go/mcmp"
)

// ParamValue describes a value for a parameter which has been parsed by a
// Source.
type ParamValue struct {
	Name  string
	Path  []string // nil if root
	Value json.RawMessage
}

// Source parses ParamValues out of a particular configuration source, given
// the root Component (and all of its children) which Params have been added
// to via MustAdd. The returned []ParamValue may contain duplicates of the
// same Param's value, in which case the last one takes precedence.
type Source interface {
	Parse(*mcmp.Component) ([]ParamValue, error)
}

// Sources is a Source which combines the ParamValues of multiple Sources.
// Sources are parsed in order; since Populate gives precedence to the last
// ParamValue seen for a given Param, later Sources in the slice override
// earlier ones.
type Sources []Source

// Parse implements the method for the Source interface.
func (ss Sources) Parse(cmp *mcmp.Component) ([]ParamValue, error) {
	var pvs []ParamValue
	for _, s := range ss {
		spvs, err := s.Parse(cmp)
		if err != nil {
			return nil, err
		}
		pvs = append(pvs, spvs...)
	}
	return pvs, nil
}
