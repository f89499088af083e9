package common

// SuccessResponse is the {"data": ...} envelope. Attendance actions also
// report Success and a human readable Message.
type SuccessResponse struct {
	Success bool        `json:"success,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Data: data,
	}
}

// NewActionResponse reports a completed action such as marking attendance.
func NewActionResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}
