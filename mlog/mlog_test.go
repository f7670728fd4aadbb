package mlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	. "testing"
	"time"

	"github.com/osprey-dcs/dp-client-go/mctx"
	"github.com/osprey-dcs/dp-client-go/mtest/massert"
)

func TestTruncate(t *T) {
	massert.Fatal(t, massert.All(
		massert.Equal("abc", Truncate("abc", 4)),
		massert.Equal("abc", Truncate("abc", 3)),
		massert.Equal("ab...", Truncate("abc", 2)),
	))
}

func TestLogger(t *T) {
	buf := new(bytes.Buffer)
	now := time.Now().UTC()
	td, ts := now.Format(msgTimeFormat), fmt.Sprint(now.UnixNano())

	l := NewLogger(&LoggerOpts{
		MessageHandler: NewJSONMessageHandler(buf),
		Now:            func() time.Time { return now },
	})

	assertOut := func(expected string) massert.Assertion {
		expected = strings.ReplaceAll(expected, "<TD>", td)
		expected = strings.ReplaceAll(expected, "<TS>", ts)
		out, err := buf.ReadString('\n')
		return massert.All(
			massert.Nil(err),
			massert.Equal(expected, strings.TrimSpace(out)),
		)
	}

	ctx := context.Background()

	// Default max level should be INFO
	l.Debug(ctx, "foo")
	l.Info(ctx, "bar")
	l.Warn(ctx, "baz", errors.New("ERR"))
	massert.Fatal(t, massert.All(
		assertOut(`{"td":"<TD>","ts":<TS>,"level":"INFO","descr":"bar","level_int":30}`),
		assertOut(`{"td":"<TD>","ts":<TS>,"level":"WARN","descr":"baz","level_int":20,"annotations":{"errMsg":"ERR"}}`),
	))

	// annotate context
	ctx = mctx.Annotate(ctx, "foo", "bar")
	l.Info(ctx, "bar")
	massert.Fatal(t, assertOut(`{"td":"<TD>","ts":<TS>,"level":"INFO","descr":"bar","level_int":30,"annotations":{"foo":"bar"}}`))

	// add namespace
	l = l.WithNamespace("ns")
	l.Info(ctx, "bar")
	massert.Fatal(t, assertOut(`{"td":"<TD>","ts":<TS>,"level":"INFO","ns":["ns"],"descr":"bar","level_int":30,"annotations":{"foo":"bar"}}`))
}
