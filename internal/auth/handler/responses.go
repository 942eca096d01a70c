package handler

// SignupResponse is the HTTP response body for POST /auth/signup.
type SignupResponse struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// VerifyResponse is the HTTP response body for POST /auth/verify.
type VerifyResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
