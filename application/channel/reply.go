package channel

// ErrorCode is the only error code reported to callers
const ErrorCode = "ERROR_GENERATING_THUMBNAIL"

// Reply receives the outcome of one method call. Exactly one method is
// called, once, on the handler's callback executor.
type Reply interface {
	Success(result any)
	Error(code, message string, details any)
	NotImplemented()
}

// Error is a structured failure reported to a caller
type Error struct {
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Result is the outcome of a call in value form
type Result struct {
	Value          any
	Err            *Error
	NotImplemented bool
}

// chanReply adapts a channel to Reply for Invoke
type chanReply chan Result

func (c chanReply) Success(result any) {
	c <- Result{Value: result}
}

func (c chanReply) Error(code, message string, details any) {
	c <- Result{Err: &Error{Code: code, Message: message, Details: details}}
}

func (c chanReply) NotImplemented() {
	c <- Result{NotImplemented: true}
}
