package youtube

import "fmt"

// TransportError is a failure to get any HTTP response at all.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("youtube %s: transport: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the API, such as an exhausted quota or
// an invalid key.
type APIError struct {
	Endpoint   string
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube %s: HTTP %d (%s): %s", e.Endpoint, e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func newAPIError(endpoint string, status int, body *errorResponse, raw string) *APIError {
	apiErr := &APIError{Endpoint: endpoint, StatusCode: status, Message: raw}
	if body != nil && body.Error.Message != "" {
		apiErr.Message = body.Error.Message
		if len(body.Error.Errors) > 0 {
			apiErr.Reason = body.Error.Errors[0].Reason
		}
	}
	return apiErr
}
