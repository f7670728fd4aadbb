package mrun

import (
	"context"
	"sync"

	"github.com/osprey-dcs/dp-client-go/mcmp"
)

// Hook describes a function which can be registered to trigger on an event
// via AddHook.
type Hook func(context.Context) error

type hookRegistryKey int

type hookRegistry struct {
	l sync.Mutex
	m map[interface{}][]Hook
}

func getHookRegistry(cmp *mcmp.Component) *hookRegistry {
	root := cmp.Root()
	if hr, ok := root.Value(hookRegistryKey(0)).(*hookRegistry); ok {
		return hr
	}
	hr := &hookRegistry{m: map[interface{}][]Hook{}}
	root.SetValue(hookRegistryKey(0), hr)
	return hr
}

// AddHook registers a Hook under a typed key, scoped to the root Component of
// cmp's tree. The Hook will be called when TriggerHooks/TriggerHooksReverse
// is called with that same key.
//
// Hooks registered under the same key are triggered in the global order they
// were added, regardless of which Component in the tree they were added
// through. For example: if a Hook is added on the root Component, then one is
// added on a child, then another on the root again, the three Hooks are
// triggered in that same order: root, child, root.
func AddHook(cmp *mcmp.Component, key interface{}, hook Hook) {
	hr := getHookRegistry(cmp)
	hr.l.Lock()
	defer hr.l.Unlock()
	hr.m[key] = append(hr.m[key], hook)
}

// TriggerHooks calls every Hook registered via AddHook under the given key,
// in the order they were added, passing ctx into each. If any Hook returns an
// error, no further Hooks are called and that error is returned.
func TriggerHooks(ctx context.Context, cmp *mcmp.Component, key interface{}) error {
	return triggerHooks(ctx, cmp, key, false)
}

// TriggerHooksReverse is the same as TriggerHooks, except Hooks are called in
// the reverse of the order they were added.
func TriggerHooksReverse(ctx context.Context, cmp *mcmp.Component, key interface{}) error {
	return triggerHooks(ctx, cmp, key, true)
}

func triggerHooks(ctx context.Context, cmp *mcmp.Component, key interface{}, reverse bool) error {
	hr := getHookRegistry(cmp)
	hr.l.Lock()
	hooks := append([]Hook{}, hr.m[key]...)
	hr.l.Unlock()

	if reverse {
		for i, j := 0, len(hooks)-1; i < j; i, j = i+1, j-1 {
			hooks[i], hooks[j] = hooks[j], hooks[i]
		}
	}

	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	return nil
}

type builtinEvent int

const (
	start builtinEvent = iota
	stop
)

// OnStart registers the given Hook to run when Start is called. This is a
// special case of AddHook.
//
// As a convention, Hooks running on the start event should block only as
// long as it takes to ensure that whatever is running can do so
// successfully. Long-lived tasks should initialize here and spawn their
// actual work with WithThreads, then register a stop Hook (OnStop) to shut
// that work down.
func OnStart(cmp *mcmp.Component, hook Hook) {
	AddHook(cmp, start, hook)
}

// Start runs all Hooks registered using OnStart, in the order they were
// registered. This is a special case of TriggerHooks.
func Start(ctx context.Context, cmp *mcmp.Component) error {
	return TriggerHooks(ctx, cmp, start)
}

// OnStop registers the given Hook to run when Stop is called. This is a
// special case of AddHook.
func OnStop(cmp *mcmp.Component, hook Hook) {
	AddHook(cmp, stop, hook)
}

// Stop runs all Hooks registered using OnStop, in the reverse of the order
// they were registered. This is a special case of TriggerHooksReverse.
func Stop(ctx context.Context, cmp *mcmp.Component) error {
	return TriggerHooksReverse(ctx, cmp, stop)
}
