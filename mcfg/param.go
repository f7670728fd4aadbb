package mcfg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/osprey-dcs/dp-client-go/mtime"
)

// Param is a configuration parameter which can be populated by Populate. The
// Param is added onto a Component, relative to its path (see the mcmp
// package for more on Component paths). For example, a Param with name "addr"
// added to a Component with path of []string{"foo","bar"} will be settable on
// the CLI via "--foo-bar-addr". Other configuration Sources may treat the
// path/name differently, however.
//
// Param values are always unmarshaled as JSON values into the Into field of
// the Param, regardless of the actual Source.
type Param struct {
	// How the parameter will be identified relative to its Component.
	Name string

	// A helpful description of how a parameter is expected to be used.
	Usage string

	// If the parameter's value is expected to be read as a go string. This is
	// used for configuration sources like CLI which will automatically add
	// double-quotes around the value if they aren't already there.
	IsString bool

	// If the parameter's value is expected to be a boolean. This is used for
	// configuration sources like CLI which treat boolean parameters (aka
	// flags) differently.
	IsBool bool

	// If true then the parameter _must_ be set by at least one Source.
	Required bool

	// The pointer/interface into which the configuration value will be
	// json.Unmarshal'd. The value being pointed to also determines the
	// default value of the parameter.
	Into interface{}

	// The Component this Param was added to. This is filled in automatically
	// by MustAdd.
	Component *mcmp.Component
}

func paramFullName(path []string, name string) string {
	full := make([]string, 0, len(path)+1)
	full = append(full, path...)
	full = append(full, name)
	return strings.Join(full, "-")
}

func (p Param) fuzzyParse(v string) json.RawMessage {
	if p.IsBool {
		if v == "" || v == "0" || v == "false" {
			return json.RawMessage("false")
		}
		return json.RawMessage("true")

	} else if p.IsString && (v == "" || v[0] != '"') {
		return json.RawMessage(`"` + v + `"`)
	}

	return json.RawMessage(v)
}

type paramKey string

func getParam(cmp *mcmp.Component, name string) (Param, bool) {
	p, ok := cmp.Value(paramKey(name)).(Param)
	return p, ok
}

// MustAdd adds the given Param onto cmp, and returns the filled-in Param. It
// panics if a Param with the same Name already exists directly on cmp.
func MustAdd(cmp *mcmp.Component, param Param) Param {
	param.Name = strings.ToLower(param.Name)
	param.Component = cmp

	if _, ok := getParam(cmp, param.Name); ok {
		panic(fmt.Sprintf("Component Path:%#v Name:%q already exists", cmp.Path(), param.Name))
	}

	cmp.SetValue(paramKey(param.Name), param)
	return param
}

func getLocalParams(cmp *mcmp.Component) []Param {
	values := cmp.Values()
	params := make([]Param, 0, len(values))
	for _, v := range values {
		if p, ok := v.(Param); ok {
			params = append(params, p)
		}
	}
	return params
}

// Int64 returns an *int64 which will be populated once Populate is run.
func Int64(cmp *mcmp.Component, name string, defaultVal int64, usage string) *int64 {
	i := defaultVal
	MustAdd(cmp, Param{Name: name, Usage: usage, Into: &i})
	return &i
}

// RequiredInt64 returns an *int64 which will be populated once Populate is
// run, and which must be supplied by a configuration Source.
func RequiredInt64(cmp *mcmp.Component, name string, usage string) *int64 {
	var i int64
	MustAdd(cmp, Param{Name: name, Required: true, Usage: usage, Into: &i})
	return &i
}

// Int returns an *int which will be populated once Populate is run.
func Int(cmp *mcmp.Component, name string, defaultVal int, usage string) *int {
	i := defaultVal
	MustAdd(cmp, Param{Name: name, Usage: usage, Into: &i})
	return &i
}

// RequiredInt returns an *int which will be populated once Populate is run,
// and which must be supplied by a configuration Source.
func RequiredInt(cmp *mcmp.Component, name string, usage string) *int {
	var i int
	MustAdd(cmp, Param{Name: name, Required: true, Usage: usage, Into: &i})
	return &i
}

// String returns a *string which will be populated once Populate is run.
func String(cmp *mcmp.Component, name, defaultVal, usage string) *string {
	s := defaultVal
	MustAdd(cmp, Param{Name: name, Usage: usage, IsString: true, Into: &s})
	return &s
}

// RequiredString returns a *string which will be populated once Populate is
// run, and which must be supplied by a configuration Source.
func RequiredString(cmp *mcmp.Component, name, usage string) *string {
	var s string
	MustAdd(cmp, Param{Name: name, Required: true, Usage: usage, IsString: true, Into: &s})
	return &s
}

// Bool returns a *bool which will be populated once Populate is run, and
// which defaults to false if unconfigured.
//
// The default behavior of all Sources is that a boolean parameter will be set
// to true unless the value is "", 0, or false. In the case of the CLI Source
// the value will also be true when the parameter is used with no value at
// all, as would be expected.
func Bool(cmp *mcmp.Component, name, usage string) *bool {
	var b bool
	MustAdd(cmp, Param{Name: name, Usage: usage, IsBool: true, Into: &b})
	return &b
}

// TS returns an *mtime.TS which will be populated once Populate is run.
func TS(cmp *mcmp.Component, name string, defaultVal mtime.TS, usage string) *mtime.TS {
	t := defaultVal
	MustAdd(cmp, Param{Name: name, Usage: usage, Into: &t})
	return &t
}

// RequiredTS returns an *mtime.TS which will be populated once Populate is
// run, and which must be supplied by a configuration Source.
func RequiredTS(cmp *mcmp.Component, name, usage string) *mtime.TS {
	var t mtime.TS
	MustAdd(cmp, Param{Name: name, Required: true, Usage: usage, Into: &t})
	return &t
}

// Duration returns an *mtime.Duration which will be populated once Populate
// is run.
func Duration(cmp *mcmp.Component, name string, defaultVal mtime.Duration, usage string) *mtime.Duration {
	d := defaultVal
	MustAdd(cmp, Param{Name: name, Usage: usage, IsString: true, Into: &d})
	return &d
}

// RequiredDuration returns an *mtime.Duration which will be populated once
// Populate is run, and which must be supplied by a configuration Source.
func RequiredDuration(cmp *mcmp.Component, name string, usage string) *mtime.Duration {
	var d mtime.Duration
	MustAdd(cmp, Param{Name: name, Required: true, Usage: usage, IsString: true, Into: &d})
	return &d
}

// JSON reads the parameter value as a JSON value and unmarshals it into the
// given interface{} (which should be a pointer). The receiver (into) is also
// used to determine the default value.
func JSON(cmp *mcmp.Component, name string, into interface{}, usage string) {
	MustAdd(cmp, Param{Name: name, Usage: usage, Into: into})
}

// RequiredJSON reads the parameter value as a JSON value and unmarshals it
// into the given interface{} (which should be a pointer). The value must be
// supplied by a configuration Source.
func RequiredJSON(cmp *mcmp.Component, name string, into interface{}, usage string) {
	MustAdd(cmp, Param{Name: name, Required: true, Usage: usage, Into: into})
}
