package errs

// Result is the exit-behavior envelope every operation returns:
// {status, ...} on success, {status, message, suggestion} on failure. The
// CLI layer (cmd/issuelens) serializes this directly to JSON.
type Result struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Success wraps a successful operation's payload.
func Success(data interface{}) Result {
	return Result{Status: "success", Data: data}
}

// Failure wraps a ClassifiedError into the error envelope.
func Failure(err *ClassifiedError) Result {
	if err == nil {
		return Result{Status: "error", Message: "unknown error"}
	}
	return Result{
		Status:     "error",
		Message:    err.Error(),
		Suggestion: err.Remediation,
	}
}
