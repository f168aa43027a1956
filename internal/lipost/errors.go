package lipost

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned when required credentials are missing. It is
// raised before any network call is attempted.
type ConfigurationError struct {
	Missing []string
}

func (e ConfigurationError) Error() string {
	if len(e.Missing) == 0 {
		return "credentials not configured"
	}
	return fmt.Sprintf("credentials not configured (missing %s)", strings.Join(e.Missing, ", "))
}

// APIError is a response from the remote API with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api request rejected: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api request rejected: status %d: %s", e.StatusCode, e.Body)
}

// NetworkError is a request that produced no response at all, such as a DNS
// or connection failure.
type NetworkError struct {
	URL string
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("no response from %s: %v", e.URL, e.Err)
}

func (e NetworkError) Unwrap() error { return e.Err }

// ClientError is a local failure on this side of the exchange, such as an
// unreadable image file or an unencodable request body.
type ClientError struct {
	Err error
}

func (e ClientError) Error() string { return e.Err.Error() }

func (e ClientError) Unwrap() error { return e.Err }
