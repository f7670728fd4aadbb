package mlog

import (
	"bytes"
	"context"
	. "testing"

	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/osprey-dcs/dp-client-go/mtest/massert"
)

func TestGetSetLogger(t *T) {
	buf := new(bytes.Buffer)
	l := NewLogger(&LoggerOpts{MessageHandler: NewJSONMessageHandler(buf)})

	cmp := new(mcmp.Component)
	cmpChild := cmp.Child("child")

	massert.Fatal(t, massert.Equal(Null, GetLogger(cmp)))

	SetLogger(cmp, l)
	massert.Fatal(t, massert.All(
		massert.Equal(l, GetLogger(cmp)),
		massert.Equal(l, GetLogger(cmpChild)),
	))

	From(cmpChild).Info(context.Background(), "hello")

	line, err := buf.ReadString('\n')
	massert.Fatal(t, massert.All(
		massert.Nil(err),
		massert.Equal(true, bytes.Contains([]byte(line), []byte(`"componentPath":"/child"`))),
	))
}
