package handler_test

import (
	"testing"

	"github.com/dshills/tabalign/internal/dispatcher/execctx"
	"github.com/dshills/tabalign/internal/dispatcher/handler"
	"github.com/dshills/tabalign/internal/input"
)

func TestHandlerFunc(t *testing.T) {
	called := false
	fn := handler.NewHandlerFunc(func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})

	result := fn.Handle(input.Action{Name: "test"}, execctx.New())

	if !called {
		t.Error("expected handler func to be called")
	}
	if result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
	if !fn.CanHandle("anything") {
		t.Error("expected CanHandle to return true")
	}
	if fn.Priority() != 0 {
		t.Errorf("expected priority 0, got %d", fn.Priority())
	}
}

func TestHandlerFuncNil(t *testing.T) {
	fn := &handler.HandlerFunc{}
	result := fn.Handle(input.Action{Name: "test"}, execctx.New())

	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError for nil func, got %v", result.Status)
	}
}

func TestHandlerFuncWithPriority(t *testing.T) {
	fn := handler.NewHandlerFuncWithPriority(func(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	}, 50)

	if fn.Priority() != 50 {
		t.Errorf("expected priority 50, got %d", fn.Priority())
	}
}

type testNamespace struct {
	handled []string
}

func (n *testNamespace) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	n.handled = append(n.handled, action.Name)
	return handler.SuccessWithMessage(action.Name)
}

func (n *testNamespace) CanHandle(actionName string) bool { return actionName == "ns.go" }

func (n *testNamespace) Namespace() string { return "ns" }

func TestNamespaceAdapter(t *testing.T) {
	ns := &testNamespace{}
	h := handler.NewNamespaceAdapter(ns)

	if !h.CanHandle("ns.go") || h.CanHandle("ns.stop") {
		t.Error("adapter should defer CanHandle to the namespace")
	}
	if h.Priority() != 0 {
		t.Errorf("expected priority 0, got %d", h.Priority())
	}

	result := h.Handle(input.Action{Name: "ns.go"}, execctx.New())
	if result.Message != "ns.go" || len(ns.handled) != 1 {
		t.Errorf("unexpected result %+v, handled %v", result, ns.handled)
	}
}
