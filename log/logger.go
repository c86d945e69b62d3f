// Package log provides flexible logging redirection.
package log

import (
	"log"
	"sync"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

// Logger is a general-purpose interface for displaying messages.
type Logger interface {
	Log(items ...interface{})
}

// ConsoleLogger sends its input directly to the default Go logger tied to
// os.Stderr.
type ConsoleLogger struct{}

// Log sends a message to the default Go logger.
func (l ConsoleLogger) Log(items ...interface{}) {
	log.Println(items...)
}

// ContextLogger prepends a fixed string to each log message, typically the
// name of the component doing the logging.
type ContextLogger struct {
	context string
	l       Logger
}

// NewContext creates a new ContextLogger using l as the underlying
// destination.  Returns nil if l is nil so callers can pass the result
// around without a nil check of their own.
func NewContext(l Logger, context string) Logger {
	if l == nil {
		return nil
	}
	return &ContextLogger{context, l}
}

// Log prepends the context from NewContext and passes the resulting message
// to the underlying Logger.
func (c *ContextLogger) Log(items ...interface{}) {
	args := append([]interface{}{c.context}, items...)
	c.l.Log(args...)
}

// Recorder captures log messages for later inspection.  It is intended for
// tests that need to assert on what a component logged.
type Recorder struct {
	sync.Mutex
	messages [][]interface{}
}

// Log records a message.
func (r *Recorder) Log(items ...interface{}) {
	r.Lock()
	defer r.Unlock()
	r.messages = append(r.messages, items)
}

// Messages returns all messages recorded so far.
func (r *Recorder) Messages() [][]interface{} {
	r.Lock()
	defer r.Unlock()
	out := make([][]interface{}, len(r.messages))
	copy(out, r.messages)
	return out
}
