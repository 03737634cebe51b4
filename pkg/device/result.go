package device

import (
	"fmt"
	"io"

	"github.com/fivetwenty-io/devapi/internal/constants"
)

// SuccessMessage is printed for a 200 response.
const SuccessMessage = "success!"

// Result is the outcome of a device request.
type Result struct {
	URL        string `json:"url"         yaml:"url"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Body       string `json:"body"        yaml:"body"`
}

// Succeeded reports whether the endpoint answered 200.
func (r *Result) Succeeded() bool {
	return r.StatusCode == constants.HTTPStatusOK
}

// StatusLine returns SuccessMessage for 200, otherwise a line carrying the code.
func (r *Result) StatusLine() string {
	if r.Succeeded() {
		return SuccessMessage
	}

	return fmt.Sprintf("Received response status: %d", r.StatusCode)
}

// Report writes the endpoint URL, the status line and the body.
func Report(w io.Writer, r *Result) error {
	err := ReportEndpoint(w, r.URL)
	if err != nil {
		return err
	}

	return ReportResponse(w, r)
}

// ReportEndpoint writes the endpoint line. Callers print it before sending so
// the target is visible even when the request fails.
func ReportEndpoint(w io.Writer, url string) error {
	_, err := fmt.Fprintf(w, "Endpoint url %s\n", url)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// ReportResponse writes the status line and the body.
func ReportResponse(w io.Writer, r *Result) error {
	_, err := fmt.Fprintf(w, "%s\nResponse body %s\n", r.StatusLine(), r.Body)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
