package response

import (
	"encoding/json"
	"net/http"

	"github.com/ja-alumni/erp/internal/access"
)

// APIResponse is the standard response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains pagination and other metadata
type Meta struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// JSON sends a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	json.NewEncoder(w).Encode(response)
}

// JSONWithMeta sends a JSON response with pagination metadata
func JSONWithMeta(w http.ResponseWriter, status int, data interface{}, meta *Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    meta,
	}

	json.NewEncoder(w).Encode(response)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// Common error responses
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, "FORBIDDEN", message)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, "CONFLICT", message)
}

func Unprocessable(w http.ResponseWriter, code, message string) {
	Error(w, http.StatusUnprocessableEntity, code, message)
}

// denialMessages are the client-facing texts for policy denials
var denialMessages = map[access.Reason]string{
	access.ReasonInsufficientRole: "Your role does not allow this action",
	access.ReasonRegionMismatch:   "This action is limited to your own region",
	access.ReasonNotOwner:         "You can only act on your own profile",
	access.ReasonSelfRoleChange:   "You cannot change your own role",
	access.ReasonUnknownAction:    "This action is not permitted",
}

// Denied writes the response for a decision that did not allow the request.
// Lookup misses become 404 only when the decision reveals them.
func Denied(w http.ResponseWriter, d access.Decision) {
	switch {
	case d.Outcome == access.OutcomeInvalidTarget:
		Unprocessable(w, "INVALID_TARGET", "Department must belong to the selected region")
	case d.Reason == access.ReasonNotFound:
		NotFound(w, "Resource not found")
	case d.Outcome == access.OutcomeUnknownRole:
		Error(w, http.StatusForbidden, "UNKNOWN_ROLE", "Your account role is not recognised; contact the committee")
	default:
		message, ok := denialMessages[d.Reason]
		if !ok {
			message = "Not authorized to perform this action"
		}
		Forbidden(w, message)
	}
}
