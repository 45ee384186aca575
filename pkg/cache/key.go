package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a logical query: an endpoint plus its filter parameters.
type Key struct {
	// Endpoint is the API endpoint path (e.g., "/countries/USA/events").
	Endpoint string

	// Params are the query parameters applied to the endpoint.
	Params url.Values
}

// String generates a deterministic cache key string.
// Format: events:endpoint:param1=val1:param2=val2
//
// Example:
//
//	events:countries/USA/events:sport_code=alp
func (k Key) String() string {
	parts := []string{"events"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Sorted for determinism
	if len(k.Params) > 0 {
		keys := make([]string, 0, len(k.Params))
		for key := range k.Params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Params.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}

var fileNameSanitizer = strings.NewReplacer(
	"/", "_",
	":", "_",
	"?", "_",
	"&", "_",
	"\\", "_",
	" ", "_",
)

// fileSafe converts an arbitrary key string into a usable file name.
func fileSafe(key string) string {
	return fileNameSanitizer.Replace(key)
}
