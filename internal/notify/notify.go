package notify

import (
	"sync"

	"github.com/webspot/webspot/internal/logger"
)

// Notifier delivers user-visible notices. Calls are fire-and-forget and
// must never block or fail the caller.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier surfaces notices through the structured log. Deployments
// with a push channel can swap in their own Notifier.
type LogNotifier struct {
	logger logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Success(msg string) {
	n.logger.Info("notice", logger.String("kind", "success"), logger.String("message", msg))
}

func (n *LogNotifier) Error(msg string) {
	n.logger.Warn("notice", logger.String("kind", "error"), logger.String("message", msg))
}

// Recorder captures notices for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// Successes returns a copy of recorded success notices.
func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

// Errors returns a copy of recorded error notices.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}
