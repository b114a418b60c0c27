package autobk

// Logger receives the service's outcome records: Error for a failed
// statement or trigger, Info for a completed write or trigger, Debug for
// reads. args are slog key/value pairs and never include the password.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// discardLogger drops every record. NewService uses it when given nil.
type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
