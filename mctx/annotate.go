package mctx

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Annotation describes the annotation of a key/value pair made on a Context via
// the Annotate call. The Path field is the Path of the Context on which the
// call was made.
type Annotation struct {
	Key, Value interface{}
	Path       []string
}

type annotation struct {
	Annotation
	root, prev *annotation
}

type annotationKey int

// Annotate takes in one or more key/value pairs (kvs' length must be even) and
// returns a Context carrying them. Annotations only exist on the local level,
// i.e. a child and parent share different annotation namespaces.
//
// NOTE that annotations are preserved across NewChild calls, but are keyed
// based on the passed in key _and_ the Context's Path.
func Annotate(ctx context.Context, kvs ...interface{}) context.Context {
	if len(kvs)%2 > 0 {
		panic("kvs being passed to mctx.Annotate must have an even number of elements")
	} else if len(kvs) == 0 {
		return ctx
	}

	// if multiple annotations are passed in here it's not actually necessary to
	// create an intermediate Context for each one, so keep curr outside and
	// only use it later
	var curr, root *annotation
	prev, _ := ctx.Value(annotationKey(0)).(*annotation)
	if prev != nil {
		root = prev.root
	}
	path := Path(ctx)
	for i := 0; i < len(kvs); i += 2 {
		curr = &annotation{
			Annotation: Annotation{
				Key: kvs[i], Value: kvs[i+1],
				Path: path,
			},
			prev: prev,
		}
		if root == nil {
			root = curr
		}
		curr.root = curr
		prev = curr
	}

	ctx = context.WithValue(ctx, annotationKey(0), curr)
	return ctx
}

// annotationsOf walks the annotation chain attached to ctx, newest first, and
// returns each unique (path, key) pair only once.
func annotationsOf(ctx context.Context) []Annotation {
	a, _ := ctx.Value(annotationKey(0)).(*annotation)
	if a == nil {
		return nil
	}
	type mKey struct {
		pathHash string
		key      interface{}
	}
	m := map[mKey]bool{}

	var aa []Annotation
	for a != nil {
		k := mKey{pathHash: pathHash(a.Path), key: a.Key}
		if !m[k] {
			aa = append(aa, a.Annotation)
			m[k] = true
		}
		a = a.prev
	}
	return aa
}

// Annotations is an accumulator of annotation key/value pairs, built up by
// repeated calls to EvaluateAnnotations. A key already present is left
// untouched, so the first writer for a given key wins.
type Annotations map[interface{}]interface{}

// EvaluateAnnotations walks all annotations which have been set via Annotate
// on ctx and merges them into acc, and returns acc. If a key is already
// present in acc it is not overwritten.
func EvaluateAnnotations(ctx context.Context, acc Annotations) Annotations {
	for _, a := range annotationsOf(ctx) {
		if _, ok := acc[a.Key]; !ok {
			acc[a.Key] = a.Value
		}
	}
	return acc
}

// StringMap formats every key/value pair in aa into strings via fmt.Sprint.
func (aa Annotations) StringMap() map[string]string {
	m := make(map[string]string, len(aa))
	for k, v := range aa {
		m[fmt.Sprint(k)] = fmt.Sprint(v)
	}
	return m
}

// StringSlice is like StringMap but returns a slice of key/value tuples
// rather than a map. If sorted is true the slice is sorted by key ascending.
func (aa Annotations) StringSlice(sorted bool) [][2]string {
	m := aa.StringMap()
	slice := make([][2]string, 0, len(m))
	for k, v := range m {
		slice = append(slice, [2]string{k, v})
	}
	if sorted {
		sort.Slice(slice, func(i, j int) bool {
			return slice[i][0] < slice[j][0]
		})
	}
	return slice
}

// annotator lets a Context be embedded as the value of an annotation, so that
// a nested Context's own annotations show up inline when the outer one is
// stringified (e.g. by a MessageHandler or merr.Error.Error).
type annotator struct{ ctx context.Context }

// ContextAsAnnotator wraps ctx so it can be used as the value in an Annotate
// call; its own annotations are rendered inline wherever the outer annotation
// is formatted.
func ContextAsAnnotator(ctx context.Context) fmt.Stringer {
	return annotator{ctx: ctx}
}

func (a annotator) String() string {
	acc := EvaluateAnnotations(a.ctx, Annotations{})
	ss := acc.StringSlice(true)
	parts := make([]string, len(ss))
	for i, kv := range ss {
		parts[i] = kv[0] + "=" + kv[1]
	}
	return strings.Join(parts, ", ")
}

func mergeAnnotations(ctxA, ctxB context.Context) context.Context {
	annotationA, _ := ctxA.Value(annotationKey(0)).(*annotation)
	annotationB, _ := ctxB.Value(annotationKey(0)).(*annotation)
	if annotationB == nil {
		return ctxA
	} else if annotationA == nil {
		return context.WithValue(ctxA, annotationKey(0), annotationB)
	}

	var headA, currA *annotation
	currB := annotationB
	for {
		if currB == nil {
			break
		}

		prevA := &annotation{
			Annotation: currB.Annotation,
			root:       annotationA.root,
		}
		if currA != nil {
			currA.prev = prevA
		}
		currA, currB = prevA, currB.prev
		if headA == nil {
			headA = currA
		}
	}

	currA.prev = annotationA
	return context.WithValue(ctxA, annotationKey(0), headA)
}

// MergeAnnotations sequentially merges the annotation data of the passed in
// Contexts into the first passed in one. Data from a Context overwrites
// overlapping data on all passed in Contexts to the left of it. All other
// aspects of the first Context remain the same, and that Context is returned
// with the new set of Annotation data.
//
// NOTE this will panic if no Contexts are passed in.
func MergeAnnotations(ctxs ...context.Context) context.Context {
	return MergeAnnotationsInto(ctxs[0], ctxs[1:]...)
}

// MergeAnnotationsInto is a convenience function which works like
// MergeAnnotations.
func MergeAnnotationsInto(ctx context.Context, ctxs ...context.Context) context.Context {
	for _, ctxB := range ctxs {
		ctx = mergeAnnotations(ctx, ctxB)
	}
	return ctx
}
