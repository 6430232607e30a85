package apierror

import "errors"

// rateLimitHint is attached when the classified error name is exactly
// "too_many_requests".
const rateLimitHint = "ChartMogul API rate limit exceeded. Wait a moment and retry."

// Body is the error object rendered to the caller.
type Body struct {
	Name       string `json:"name"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"statusCode"`
}

// Response is the uniform failure shape written on any error path. Hint is
// absent (not null) unless the rate-limit hint applies.
type Response struct {
	Error Body   `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func newResponse(name, detail string, statusCode int) Response {
	resp := Response{Error: Body{Name: name, Detail: detail, StatusCode: statusCode}}
	if name == "too_many_requests" {
		resp.Hint = rateLimitHint
	}
	return resp
}

// Handle routes any failure to the uniform Response shape. Local failures are
// redacted and keep their carried status code; upstream API failures are
// classified; anything else becomes "unknown_error". Handle does not
// terminate the process; callers serialize the Response and exit non-zero.
func Handle(err error) Response {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		status := cliErr.StatusCode
		if status == 0 {
			status = 1
		}
		return newResponse("cli_error", SanitizeMessage(cliErr.Message), status)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		classified := Classify(apiErr.Payload)
		return newResponse(classified.Name, classified.Detail, apiErr.StatusCode)
	}

	if err != nil {
		return newResponse("unknown_error", SanitizeMessage(err.Error()), 1)
	}

	return newResponse("unknown_error", "An unexpected error occurred", 1)
}
