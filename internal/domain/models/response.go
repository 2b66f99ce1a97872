package models

// CommandResponse is the envelope returned by every backend command except
// get_logs.
type CommandResponse[T any] struct {
	Success bool    `json:"success"`
	Data    *T      `json:"data"`
	Error   *string `json:"error"`
}

// OK reports success with a payload present.
func (r CommandResponse[T]) OK() bool {
	return r.Success && r.Data != nil
}

// ErrorText returns the backend error text, or fallback when the backend
// supplied none.
func (r CommandResponse[T]) ErrorText(fallback string) string {
	if r.Error != nil && *r.Error != "" {
		return *r.Error
	}
	return fallback
}

// DataOr returns the payload, or fallback when absent.
func (r CommandResponse[T]) DataOr(fallback T) T {
	if r.Data == nil {
		return fallback
	}
	return *r.Data
}

// BackendError carries a failure reported by the backend. Its text is shown
// to the user verbatim.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return e.Message
}
