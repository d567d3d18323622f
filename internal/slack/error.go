package slack

import (
	"fmt"
	"sort"
	"strings"
)

// APIError is a failed Slack Web API call. It carries the API method name
// and, when useful for diagnostics, the request parameters.
type APIError struct {
	Method string
	Params map[string]string
	Err    error
}

func (e *APIError) Error() string {
	if len(e.Params) == 0 {
		return fmt.Sprintf("slack: %s: %v", e.Method, e.Err)
	}
	keys := make([]string, 0, len(e.Params))
	for k := range e.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + e.Params[k]
	}
	return fmt.Sprintf("slack: %s (%s): %v", e.Method, strings.Join(pairs, " "), e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }
