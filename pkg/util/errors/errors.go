package errors

// Generic Pqd Errors
var (
	ErrNotImplemented = New(1001, "operation not implemented")
	ErrInvalidInput   = Newf(1002, "invalid input for %s")
)
