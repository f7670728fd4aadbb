package mctx

import (
	"context"
	. "testing"

	"github.com/osprey-dcs/dp-client-go/mtest/massert"
)

func TestAnnotate(t *T) {
	ctx := context.Background()
	ctx = Annotate(ctx, "a", "foo")
	ctx = Annotate(ctx, "b", "bar")
	ctx = Annotate(ctx, "b", "BAR")

	annotations := EvaluateAnnotations(ctx, Annotations{})
	massert.Fatal(t, massert.All(
		massert.Len(annotations, 2),
		massert.Equal("foo", annotations["a"]),
		massert.Equal("BAR", annotations["b"]),
	))
}

func TestAnnotationsStringMap(t *T) {
	aa := Annotations{
		0:       "zero",
		1:       "one",
		"other": "two",
	}

	massert.Fatal(t, massert.Equal(map[string]string{
		"0":     "zero",
		"1":     "one",
		"other": "two",
	}, aa.StringMap()))
}

func TestMergeAnnotations(t *T) {
	ctxA := Annotate(context.Background(), 0, "zero", 1, "one")
	ctxA = Annotate(ctxA, 0, "ZERO")
	ctxB := Annotate(context.Background(), 2, "two")
	ctxB = Annotate(ctxB, 1, "ONE", 2, "TWO")

	ctx := MergeAnnotations(ctxA, ctxB)
	annotations := EvaluateAnnotations(ctx, Annotations{})
	massert.Fatal(t, massert.Equal(map[string]string{
		"0": "ZERO",
		"1": "ONE",
		"2": "TWO",
	}, annotations.StringMap()))
}
