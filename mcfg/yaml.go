package mcfg

import (
	"encoding/json"
	"io/ioutil"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"gopkg.in/yaml.v3"
)

// SourceYAML is a Source which parses configuration from a YAML document.
// Nested YAML mappings correspond to Component paths: a value at path
// foo.bar.baz in the document is matched against a Param named "baz" which
// was added to a Component at path []string{"foo", "bar"}.
//
//	query:
//	  timeout:
//	    limit: 30
//	  logging:
//	    enabled: true
//
// would produce ParamValues for Params named "limit" (path
// []string{"query","timeout"}) and "enabled" (path
// []string{"query","logging"}).
type SourceYAML struct {
	// Path to the YAML file to read. Mutually exclusive with Bytes.
	Path string

	// Raw YAML document. Used instead of reading Path if non-nil.
	Bytes []byte
}

// Parse implements the method for the Source interface.
func (y *SourceYAML) Parse(cmp *mcmp.Component) ([]ParamValue, error) {
	b := y.Bytes
	if b == nil {
		var err error
		if b, err = ioutil.ReadFile(y.Path); err != nil {
			return nil, err
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	var pvs []ParamValue
	if err := yamlWalk(root.Content[0], nil, &pvs); err != nil {
		return nil, err
	}
	return pvs, nil
}

// yamlWalk recursively descends a YAML mapping node, treating every leaf
// scalar or sequence as a ParamValue and every nested mapping as another
// level of Component path.
func yamlWalk(n *yaml.Node, path []string, pvs *[]ParamValue) error {
	if n.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		name := keyNode.Value

		if valNode.Kind == yaml.MappingNode {
			childPath := append(append([]string{}, path...), name)
			if err := yamlWalk(valNode, childPath, pvs); err != nil {
				return err
			}
			continue
		}

		var v interface{}
		if err := valNode.Decode(&v); err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}

		*pvs = append(*pvs, ParamValue{
			Name:  name,
			Path:  append([]string{}, path...),
			Value: json.RawMessage(b),
		})
	}

	return nil
}
