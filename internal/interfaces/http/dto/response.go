package dto

// ErrorResponse is the envelope returned for any failed request
type ErrorResponse struct {
	Success bool       `json:"success"`
	Error   *ErrorInfo `json:"error"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// StatusResponse is the minimal acknowledgment body used by write endpoints
type StatusResponse struct {
	Status string `json:"status"`
}

// SuccessStatus acknowledges a completed write
func SuccessStatus() StatusResponse {
	return StatusResponse{Status: "success"}
}
