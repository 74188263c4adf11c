package app

import (
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/tabalign/internal/align"
	"github.com/dshills/tabalign/internal/config"
	"github.com/dshills/tabalign/internal/dispatcher"
	"github.com/dshills/tabalign/internal/dispatcher/handler"
	alignhandler "github.com/dshills/tabalign/internal/dispatcher/handlers/align"
	"github.com/dshills/tabalign/internal/input"
	luaplugin "github.com/dshills/tabalign/internal/plugin/lua"
)

// App runs alignment actions against documents.
//
// A single dispatcher serves every document; Execute points it at the
// document for the duration of one action, so calls are serialized.
type App struct {
	mu sync.Mutex

	cfg          *config.Config
	logger       *Logger
	dispatcher   *dispatcher.Dispatcher
	scriptOutput io.Writer
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l *Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithScriptOutput sets where Lua print writes. Defaults to os.Stderr.
func WithScriptOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.scriptOutput = w
		}
	}
}

// New creates an App from cfg. A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg:          cfg,
		logger:       NewNopLogger(),
		scriptOutput: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}

	zl := a.logger.WithComponent("dispatcher").Zap()
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.SetLogger(zl)
	d.RegisterNamespace("align", alignhandler.NewAlignHandlerWithConfig(cfg.Editor.TabSize, cfg.Budget()))

	hook := dispatcher.NewLoggingHook(zl)
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)

	a.dispatcher = d
	return a
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *Logger {
	return a.logger
}

// Dispatcher returns the action dispatcher.
func (a *App) Dispatcher() *dispatcher.Dispatcher {
	return a.dispatcher
}

// Open loads a document using the configured tab size.
func (a *App) Open(path string) (*Document, error) {
	doc, err := OpenDocument(path, a.cfg.Editor.TabSize)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("opened document",
		zap.String("path", path),
		zap.Uint32("lines", doc.Buffer.LineCount()),
		zap.Stringer("lineEnding", doc.Buffer.LineEnding()))
	return doc, nil
}

// Execute dispatches actionName against doc and returns the handler result.
// A result with StatusError is returned together with an error wrapping the
// handler's error, so callers can use align.IsUserInputError on it.
func (a *App) Execute(doc *Document, actionName string) (handler.Result, error) {
	if doc == nil {
		return handler.Error(ErrNoDocument), NewOperationError(actionName, "", ErrNoDocument)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	log := a.logger.WithFields(
		zap.String("op", uuid.NewString()),
		zap.String("action", actionName),
		zap.String("document", doc.Name))

	if doc.Cursors == nil {
		err := &align.UserInputError{Op: actionName, Err: align.ErrNoCursors}
		log.Info("no cursors placed")
		return handler.Error(err).WithMessage(align.StatusMessage(err)),
			NewOperationError(actionName, doc.Name, err)
	}

	a.dispatcher.SetEngine(doc.Buffer)
	a.dispatcher.SetCursors(doc.Cursors)
	a.dispatcher.SetFilePath(doc.Path)
	a.dispatcher.SetLogger(log.Zap())

	result := a.dispatcher.Dispatch(input.NewAction(actionName, input.SourceCLI))

	switch result.Status {
	case handler.StatusOK, handler.StatusNoOp:
		log.Debug("action complete",
			zap.Stringer("status", result.Status),
			zap.String("message", result.Message),
			zap.Int("edits", len(result.Edits)))
		return result, nil
	case handler.StatusError:
		return result, NewOperationError(actionName, doc.Name, result.Error)
	default:
		return result, NewOperationError(actionName, doc.Name, ErrActionFailed).WithContext(result.Message)
	}
}

// RunScript runs the Lua script at path against doc and returns the last
// status message the script produced. Cursors placed by the script are kept
// on the document.
func (a *App) RunScript(doc *Document, path string) (string, error) {
	if doc == nil {
		return "", NewOperationError("run script", path, ErrNoDocument)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	log := a.logger.WithFields(
		zap.String("op", uuid.NewString()),
		zap.String("script", path),
		zap.String("document", doc.Name))

	state := luaplugin.NewState(
		luaplugin.WithExecutionTimeout(a.cfg.Align.Timeout),
		luaplugin.WithOutput(a.scriptOutput))
	defer state.Close()

	a.dispatcher.SetFilePath(doc.Path)
	a.dispatcher.SetLogger(log.Zap())

	mod := luaplugin.NewModule(doc.Buffer, doc.Cursors, a.dispatcher,
		luaplugin.WithBudget(a.cfg.Budget()),
		luaplugin.WithLogger(log.WithComponent("lua").Zap()))
	mod.Register(state)

	err := state.DoFile(path)
	doc.Cursors = mod.Cursors()
	if err != nil {
		log.Error("script failed", zap.Error(err))
		return mod.Status(), NewOperationError("run script", path, err)
	}

	log.Debug("script finished", zap.String("status", mod.Status()))
	return mod.Status(), nil
}

// Close logs dispatch statistics and flushes the logger. Sync errors from
// terminals are ignored.
func (a *App) Close() {
	if m := a.dispatcher.Metrics(); m != nil {
		a.logger.Debug("session finished", m.Snapshot().Field())
	}
	_ = a.logger.Sync()
}
