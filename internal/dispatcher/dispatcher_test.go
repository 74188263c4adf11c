package dispatcher_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/tabalign/internal/dispatcher"
	"github.com/dshills/tabalign/internal/dispatcher/execctx"
	"github.com/dshills/tabalign/internal/dispatcher/handler"
	"github.com/dshills/tabalign/internal/engine/buffer"
	"github.com/dshills/tabalign/internal/input"
)

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	if d.Registry() == nil || d.Router() == nil {
		t.Fatal("expected registry and router")
	}
	if d.Metrics() != nil {
		t.Error("expected nil metrics by default")
	}
	if !d.Config().RecoverFromPanic {
		t.Error("expected panic recovery by default")
	}
}

func TestDispatchNoHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	result := d.Dispatch(input.Action{Name: "unknown.action"})

	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError for unknown action, got %v", result.Status)
	}
	if !errors.Is(result.Error, dispatcher.ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", result.Error)
	}
}

func TestRegisterHandlerFunc(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	buf := buffer.NewBufferFromString("x")
	d.SetEngine(buf)

	var gotEngine execctx.EngineInterface
	d.RegisterHandlerFunc("test", func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		gotEngine = ctx.Engine
		return handler.Success()
	})

	if result := d.Dispatch(input.Action{Name: "test"}); !result.IsOK() {
		t.Fatalf("expected OK, got %v", result.Status)
	}
	if gotEngine != buf {
		t.Error("handler should see the dispatcher's engine")
	}
}

type recordingNamespace struct {
	names []string
}

func (n *recordingNamespace) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	n.names = append(n.names, action.Name)
	return handler.Success()
}

func (n *recordingNamespace) CanHandle(actionName string) bool {
	return actionName == "rec.one" || actionName == "rec.two"
}

func (n *recordingNamespace) Namespace() string { return "rec" }

func TestNamespaceRouting(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	ns := &recordingNamespace{}
	d.RegisterNamespace(ns.Namespace(), ns)

	d.Dispatch(input.Action{Name: "rec.one"})
	d.Dispatch(input.Action{Name: "rec.two"})
	result := d.Dispatch(input.Action{Name: "rec.three"})

	if len(ns.names) != 2 {
		t.Errorf("expected 2 routed actions, got %v", ns.names)
	}
	if !result.IsError() {
		t.Error("unknown action in a known namespace should fail")
	}
	if !d.Router().HasNamespace("rec") {
		t.Error("expected namespace to be registered")
	}
}

func TestRegistryPriority(t *testing.T) {
	r := dispatcher.NewRegistry()
	low := handler.NewHandlerFuncWithPriority(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("low")
	}, 1)
	high := handler.NewHandlerFuncWithPriority(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("high")
	}, 10)

	r.Register("act", low)
	r.Register("act", high)

	if got := r.Get("act").Handle(input.Action{}, execctx.New()).Message; got != "high" {
		t.Errorf("expected high priority handler, got %q", got)
	}
	if !r.Has("act") || r.Has("other") {
		t.Error("Has returned wrong values")
	}
	r.Unregister("act")
	if r.Get("act") != nil {
		t.Error("expected handler to be removed")
	}
}

func TestPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("boom", func(input.Action, *execctx.ExecutionContext) handler.Result {
		panic("kaboom")
	})

	result := d.Dispatch(input.Action{Name: "boom"})

	if !errors.Is(result.Error, dispatcher.ErrPanic) {
		t.Errorf("expected ErrPanic, got %v", result.Error)
	}
	if d.Metrics().TotalPanics() != 1 {
		t.Errorf("expected 1 panic, got %d", d.Metrics().TotalPanics())
	}
}

func TestPreHookCancels(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	called := false
	d.RegisterHandlerFunc("act", func(input.Action, *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(*input.Action, *execctx.ExecutionContext) bool {
		return false
	}))

	result := d.Dispatch(input.Action{Name: "act"})

	if called {
		t.Error("handler should not run when a hook cancels")
	}
	if result.Status != handler.StatusCancelled {
		t.Errorf("expected StatusCancelled, got %v", result.Status)
	}
}

func TestPostHookSeesResult(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("act", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("done")
	})

	var seen string
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(_ *input.Action, _ *execctx.ExecutionContext, r *handler.Result) {
		seen = r.Message
		r.Message = "changed"
	}))

	result := d.Dispatch(input.Action{Name: "act"})
	if seen != "done" || result.Message != "changed" {
		t.Errorf("seen=%q result=%q", seen, result.Message)
	}
}

func TestLoggingHook(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := dispatcher.NewWithDefaults()
	hook := dispatcher.NewLoggingHook(zap.New(core))
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)
	d.RegisterHandlerFunc("ok", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	d.RegisterHandlerFunc("bad", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("nope")
	})

	d.Dispatch(input.Action{Name: "ok"})
	d.Dispatch(input.Action{Name: "bad"})

	if n := logs.FilterMessage("dispatching action").Len(); n != 2 {
		t.Errorf("expected 2 dispatch entries, got %d", n)
	}
	failed := logs.FilterMessage("dispatch failed").All()
	if len(failed) != 1 || failed[0].Level != zapcore.WarnLevel {
		t.Errorf("expected one warn entry, got %v", failed)
	}
}

func TestMetrics(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.RegisterHandlerFunc("ok", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	})
	d.RegisterHandlerFunc("bad", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.Errorf("nope")
	})

	d.Dispatch(input.Action{Name: "ok"})
	d.Dispatch(input.Action{Name: "ok"})
	d.Dispatch(input.Action{Name: "bad"})

	m := d.Metrics()
	snap := m.Snapshot()
	if snap.TotalDispatches != 3 || snap.TotalErrors != 1 || snap.ActionCount != 2 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if stats := m.ActionStats("ok"); stats == nil || stats.DispatchCount != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if m.ActionStats("missing") != nil {
		t.Error("expected nil stats for unknown action")
	}
	actions := m.Actions()
	if len(actions) != 2 || actions[0].Name != "bad" {
		t.Errorf("unexpected actions %+v", actions)
	}
}
