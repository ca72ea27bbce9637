package handlers

import (
	"errors"
	"net/http"

	"github.com/grvbrk/ytcomments/internal/export"
	"github.com/grvbrk/ytcomments/internal/services"
	"github.com/grvbrk/ytcomments/internal/youtube"
)

// statusFor maps an operation error to the HTTP status the API answers with.
func statusFor(err error) (int, string) {
	var apiErr *youtube.APIError
	var transportErr *youtube.TransportError

	switch {
	case errors.Is(err, services.ErrBusy):
		return http.StatusConflict, "Another operation is in progress"
	case errors.Is(err, services.ErrUnknownVideo):
		return http.StatusNotFound, "Video Not Found"
	case errors.Is(err, export.ErrNoVideo):
		return http.StatusConflict, "No video selected"
	case errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest, "Bad Request"
	case errors.As(err, &apiErr), errors.As(err, &transportErr):
		return http.StatusBadGateway, "YouTube API request failed"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
