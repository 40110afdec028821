package task

// NotFoundError reports that no task exists for the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "task with ID " + e.ID + " not found"
}

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// InvalidIDError reports an id that is not a valid object id hex string.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return "invalid task ID: " + e.ID
}

func IsInvalidIDError(err error) bool {
	_, ok := err.(*InvalidIDError)
	return ok
}

// ValidationError reports a payload that violates a domain rule. The
// message is safe to echo to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
