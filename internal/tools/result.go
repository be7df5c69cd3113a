package tools

// Result is the envelope every tool returns. Failures are reported here and
// never as Go errors.
type Result struct {
	Success bool   `json:"success"        yaml:"success"`
	Message string `json:"message"        yaml:"message"`
	Data    any    `json:"data,omitempty" yaml:"data,omitempty"`
}

// OK returns a successful result.
func OK(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Fail returns a failed result.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
