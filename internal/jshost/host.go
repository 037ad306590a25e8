// Package jshost encapsulates the sandboxed JavaScript evaluator behind
// $where. A host lazily initializes on first use, serializes evaluations
// behind a mutex, and runs every script in a fresh realm so state cannot
// leak between evaluations.
package jshost

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/georgefloros/sift-go/internal/value"
)

// Host evaluates $where scripts. The zero value is not usable; construct
// with New. A Host is safe for concurrent use: evaluations are mutually
// exclusive.
type Host struct {
	mu          sync.Mutex
	logger      *slog.Logger
	initialized bool
}

// New creates a script host. The logger may be nil.
func New(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{logger: logger.With(slog.String("component", "jshost"))}
}

// Evaluate runs script with doc bound as `this` and coerces the result via
// JavaScript truthiness. The document crosses into the script as a
// structural copy; scripts cannot reach back into the host value. Parse
// errors and runtime exceptions are reported as errors.
func (h *Host) Evaluate(script string, doc value.Value) (result bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.initialized {
		h.initialized = true
		h.logger.Debug("script host initialized")
	}

	// goja reports runaway scripts (e.g. stack exhaustion) by panicking.
	defer func() {
		if r := recover(); r != nil {
			result = false
			err = fmt.Errorf("script aborted: %v", r)
		}
	}()

	vm := goja.New()
	fnVal, err := vm.RunString(wrapScript(script))
	if err != nil {
		return false, fmt.Errorf("script parse error: %v", err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return false, fmt.Errorf("script did not evaluate to a function")
	}

	res, err := fn(vm.ToValue(doc.ToAny()))
	if err != nil {
		h.logger.Debug("script evaluation failed", slog.String("error", err.Error()))
		return false, fmt.Errorf("script error: %v", err)
	}
	return res.ToBoolean(), nil
}

// wrapScript turns the two accepted script shapes into a callable: a
// function literal is used as-is, a bare expression is wrapped in one.
func wrapScript(script string) string {
	if strings.HasPrefix(strings.TrimSpace(script), "function") {
		return "(" + script + ")"
	}
	return "(function() { return (" + script + "\n); })"
}
