// Data transfer objects for the auth endpoints. These are the request and
// response payload shapes, kept separate from the domain model.
package auth

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password" example:"strongpassword123"`
}

// TokenResponse is returned to the client upon successful login or refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int64  `json:"expires_in" example:"3600"` // access token expiry, unix seconds
}

// RefreshTokenRequest is used to obtain a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}
