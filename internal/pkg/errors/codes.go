// Package errors carries coded application errors for the HTTP
// gateway. Dialog validation never produces one of these; invalid
// input stays inside the engine as a re-prompt reply. Codes exist for
// failures a request must report with a status: bad parameters,
// persistence trouble, provider trouble.
package errors

import "net/http"

const (
	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrInvalidParams  = 1001

	// Persistence errors (3000-3999)
	ErrPersistence = 3000

	// Provider errors (4000-4999)
	ErrProvider = 4000
)

type codeInfo struct {
	status  int
	message string
}

var codeMap = map[int]codeInfo{
	ErrInternalServer: {http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:  {http.StatusBadRequest, "Invalid parameters"},
	ErrPersistence:    {http.StatusInternalServerError, "Persistence operation failed"},
	ErrProvider:       {http.StatusBadGateway, "Hotel provider request failed"},
}

// GetHTTPStatus returns the HTTP status for a code. Unknown codes map
// to 500.
func GetHTTPStatus(code int) int {
	if c, ok := codeMap[code]; ok {
		return c.status
	}
	return http.StatusInternalServerError
}

// GetMessage returns the message for a code.
func GetMessage(code int) string {
	if c, ok := codeMap[code]; ok {
		return c.message
	}
	return codeMap[ErrInternalServer].message
}
