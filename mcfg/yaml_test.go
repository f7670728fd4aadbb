package mcfg

import (
	. "testing"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/osprey-dcs/dp-client-go/mtest/massert"
)

func TestSourceYAML(t *T) {
	doc := []byte(`
query:
  timeout:
    limit: 30
  logging:
    enabled: true
top: 5
`)

	cmp := new(mcmp.Component)
	top := Int(cmp, "top", 0, "")
	query := cmp.Child("query")
	timeout := query.Child("timeout")
	limit := Int(timeout, "limit", 0, "")
	logging := query.Child("logging")
	enabled := Bool(logging, "enabled", "")

	err := Populate(cmp, &SourceYAML{Bytes: doc})
	massert.Fatal(t, massert.All(
		massert.Nil(err),
		massert.Equal(5, *top),
		massert.Equal(30, *limit),
		massert.Equal(true, *enabled),
	))
}
