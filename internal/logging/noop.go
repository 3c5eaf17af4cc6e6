package logging

// Noop discards every message.
type Noop struct{}

// NewNoop creates a logger that discards everything.
func NewNoop() Noop { return Noop{} }

// Debug, Info, Warn and Error discard their arguments.
func (Noop) Debug(msg string, args ...interface{}) {}
func (Noop) Info(msg string, args ...interface{})  {}
func (Noop) Warn(msg string, args ...interface{})  {}
func (Noop) Error(msg string, args ...interface{}) {}

// WithComponent returns the same logger.
func (n Noop) WithComponent(string) Logger { return n }
