package observability

import (
	"runtime/debug"
)

// RecoverPanic recovers from a panic and logs it with its stack trace.
// Call it directly in a defer statement:
//
//	defer observability.RecoverPanic(logger, "cache warm-up")
//
// The panic is not re-raised.
func RecoverPanic(logger *Logger, context string) {
	if r := recover(); r != nil {
		logger.WithField("panic", r).
			WithField("stack", string(debug.Stack())).
			WithField("context", context).
			Error("PANIC recovered")
	}
}
