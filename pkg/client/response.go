package client

import (
	"encoding/json"
)

// Collection field names the API uses across endpoints.
var collectionFields = []string{"events", "sports", "countries", "results"}

// Response is a validated API response.
type Response struct {
	// Success is the API's own success flag.
	Success bool

	// Total is the result count reported by the API (0 when absent).
	Total int

	// Collection names the resource list field ("events", "sports", ...).
	Collection string

	// Items is the resource list.
	Items []map[string]any

	// Raw is the full decoded body, suitable for caching.
	Raw map[string]any
}

// decodeResponse validates the top-level body shape: a JSON object with a
// boolean success flag and a resource collection. Anything else is a
// malformed-response failure rather than a partially-decoded payload.
func decodeResponse(statusCode int, body []byte) (*Response, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{
			StatusCode: statusCode,
			Class:      ErrorClassMalformed,
			Message:    "response body is not a JSON object",
			Err:        err,
		}
	}

	success, ok := raw["success"].(bool)
	if !ok {
		return nil, &APIError{
			StatusCode: statusCode,
			Class:      ErrorClassMalformed,
			Message:    "response missing success flag",
		}
	}

	name, list, ok := findCollection(raw)
	if !ok {
		return nil, &APIError{
			StatusCode: statusCode,
			Class:      ErrorClassMalformed,
			Message:    "response missing resource collection",
		}
	}

	items := make([]map[string]any, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &APIError{
				StatusCode: statusCode,
				Class:      ErrorClassMalformed,
				Message:    "resource collection contains a non-object item",
			}
		}
		items = append(items, obj)
	}

	resp := &Response{
		Success:    success,
		Collection: name,
		Items:      items,
		Raw:        raw,
	}
	if total, ok := raw["total"].(float64); ok {
		resp.Total = int(total)
	}
	return resp, nil
}

// findCollection locates the resource list: a known field name first, then
// any array-valued field.
func findCollection(raw map[string]any) (string, []any, bool) {
	for _, name := range collectionFields {
		if list, ok := raw[name].([]any); ok {
			return name, list, true
		}
	}
	for name, value := range raw {
		if list, ok := value.([]any); ok {
			return name, list, true
		}
	}
	return "", nil, false
}
