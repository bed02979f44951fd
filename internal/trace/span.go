package trace

import (
	"context"
	"sync/atomic"
	"time"
)

type (
	tracerKey struct{}
	spanKey   struct{}
)

var lastSpanID atomic.Uint64

// WithTracer returns ctx carrying t. A nil t stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer stored by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithSpan makes s the parent of spans and points emitted under the
// returned context.
func WithSpan(ctx context.Context, s *Span) context.Context {
	if s.ID() == 0 {
		return ctx
	}
	return context.WithValue(ctx, spanKey{}, s.id)
}

// CurrentSpan returns the span ID stored by WithSpan, or 0.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// Span is an operation between Begin and End. A disabled span has no
// tracer and every method on it is a no-op.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under the tracer and parent span carried by ctx.
func Begin(ctx context.Context, scope Scope, name string) *Span {
	t := FromContext(ctx)
	if !t.Level().ShouldEmit(scope, KindSpanBegin) {
		return &Span{}
	}
	s := &Span{
		t:       t,
		id:      lastSpanID.Add(1),
		parent:  CurrentSpan(ctx),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started))
	return s
}

func (s *Span) event(kind Kind, at time.Time) *Event {
	return &Event{Time: at, Kind: kind, Scope: s.scope, SpanID: s.id, ParentID: s.parent, Name: s.name}
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

// End closes the span and returns its duration; 0 for a disabled span.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now)
	ev.Detail = detail
	ev.Elapsed = now.Sub(s.started)
	ev.Extra = s.extra
	s.t.Emit(ev)
	return ev.Elapsed
}

// ID returns the span ID, 0 when disabled.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under the current span.
func Point(ctx context.Context, scope Scope, name, detail string) {
	emitAt(ctx, KindPoint, scope, name, detail)
}

// Error reports err for name at file scope. Nil errors are ignored.
func Error(ctx context.Context, name string, err error) {
	if err != nil {
		emitAt(ctx, KindError, ScopeFile, name, err.Error())
	}
}

func emitAt(ctx context.Context, kind Kind, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Level().ShouldEmit(scope, kind) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    scope,
		ParentID: CurrentSpan(ctx),
		Name:     name,
		Detail:   detail,
	})
}
