package mlog

import (
	"github.com/osprey-dcs/dp-client-go/mcmp"
	"github.com/osprey-dcs/dp-client-go/mctx"
)

type cmpKey int

// SetLogger sets the given logger onto the Component. The logger can later be
// retrieved from the Component, or any of its children, using From.
func SetLogger(cmp *mcmp.Component, l *Logger) {
	cmp.SetValue(cmpKey(0), l)

	// If the base Logger on this Component gets changed, then the cached Logger
	// from From on this Component, and all of its Children, ought to be reset,
	// so that any changes can be reflected in their loggers.
	var resetFromLogger func(*mcmp.Component)
	resetFromLogger = func(cmp *mcmp.Component) {
		cmp.SetValue(cmpKey(1), nil)
		for _, childCmp := range cmp.Children() {
			resetFromLogger(childCmp)
		}
	}
	resetFromLogger(cmp)
}

// GetLogger returns the Logger which was set on the Component, or on one of
// its ancestors, using SetLogger. If no Logger was ever set then Null is
// returned.
func GetLogger(cmp *mcmp.Component) *Logger {
	if l, ok := cmp.InheritedValue(cmpKey(0)); ok {
		return l.(*Logger)
	}
	return Null
}

// cmpMessageHandler wraps another MessageHandler, merging a Component's
// annotations into every Message's Context before delegating.
type cmpMessageHandler struct {
	cmp  *mcmp.Component
	orig MessageHandler
}

func (h cmpMessageHandler) Handle(msg FullMessage) error {
	msg.Context = mctx.MergeAnnotations(h.cmp.Context(), msg.Context)
	return h.orig.Handle(msg)
}

func (h cmpMessageHandler) Sync() error {
	return h.orig.Sync()
}

// From returns the result of GetLogger, modified so as to automatically add
// annotations related to the Component itself to all Messages being logged.
func From(cmp *mcmp.Component) *Logger {
	if l, _ := cmp.Value(cmpKey(1)).(*Logger); l != nil {
		return l
	}

	// if we're here it means a modified Logger wasn't set on this particular
	// Component, and therefore the current one must be wrapped.
	base := GetLogger(cmp)
	l := base.clone()
	l.opts = &LoggerOpts{
		MessageHandler: cmpMessageHandler{cmp: cmp, orig: base.opts.MessageHandler},
		MaxLevel:       base.opts.MaxLevel,
		Now:            base.opts.Now,
	}
	cmp.SetValue(cmpKey(1), l)

	return l
}
