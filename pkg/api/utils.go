package api

// ApiResponse is the uniform envelope every endpoint returns. Success
// responses carry Data, failures carry Error, and rate-limit rejections
// additionally carry RetryAfter seconds.
type ApiResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      interface{} `json:"error,omitempty"`
	RetryAfter int         `json:"retryAfter,omitempty"`
}

func defaultErrorResponse(errorMsg interface{}) ApiResponse {
	return ApiResponse{Success: false, Error: errorMsg}
}

func defaultSuccessResponse(data interface{}) ApiResponse {
	return ApiResponse{Success: true, Data: data}
}
