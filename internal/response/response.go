package response

import "github.com/AlexanderESM/calories-tracker/internal"

// APIResponse is the envelope of every JSON body the API writes. Exactly
// one of Data and Error is set.
type APIResponse struct {
	Data  interface{}        `json:"data,omitempty"`
	Meta  map[string]any     `json:"meta,omitempty"`
	Error *internal.AppError `json:"error,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta}
}

// Failure builds an error envelope whose code mirrors the HTTP status.
func Failure(status int, msg string) APIResponse {
	return APIResponse{Error: &internal.AppError{Code: status, Message: msg}}
}
