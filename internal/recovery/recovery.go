// internal/recovery/recovery.go
package recovery

import (
	"fmt"
	"os"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// exit is replaced in tests
var exit = os.Exit

// HandlePanic should be deferred at the top of main() or goroutines.
// It logs panic details and exits with code 1.
func HandlePanic() {
	if r := recover(); r != nil {
		report(r, debug.Stack())
		exit(1)
	}
}

// HandlePanicFunc logs panic details and calls the provided cleanup function
// before exiting. Use it in capture goroutines that own a channel.
func HandlePanicFunc(cleanup func()) {
	if r := recover(); r != nil {
		report(r, debug.Stack())
		if cleanup != nil {
			cleanup()
		}
		exit(1)
	}
}

// report goes through the global zap logger once one is installed. Before
// that (a panic during flag parsing or config load) it writes to stderr.
func report(r any, stack []byte) {
	logger := zap.L()
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		_, _ = fmt.Fprintf(os.Stderr, "FATAL: %v\n\nStack trace:\n%s\n", r, stack)
		return
	}
	logger.Error("FATAL: recovered panic",
		zap.Any("panic", r),
		zap.ByteString("stack", stack),
	)
	_ = logger.Sync()
}
