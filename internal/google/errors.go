package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// APIErrorMessage renders a Google API failure as "<status> <message>".
// The second result is false when err does not carry a googleapi.Error.
func APIErrorMessage(err error) (string, bool) {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return "", false
	}

	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.Code)
	}
	return fmt.Sprintf("%d %s", apiErr.Code, msg), true
}

// IsNotFound reports whether err is a 404 or 410 from a Google API.
// Deleting an event that is already gone returns 410.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}
