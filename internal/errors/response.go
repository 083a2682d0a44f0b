package errors

type Response struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type InsufficientCreditsResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Current  int64  `json:"current"`
	Required int64  `json:"required"`
}
