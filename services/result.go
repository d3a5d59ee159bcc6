package services

// Result is the (success, message) completion shape every user-facing flow
// reports. The message is meant for direct display.
type Result struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
}

func ok(message string) Result   { return Result{OK: true, Message: message} }
func fail(message string) Result { return Result{OK: false, Message: message} }

// ServiceError is a typed error with an HTTP status code, used by the query
// paths.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}
