package dto

// ── auth ──

// LoginRequest administrators use their configured username and password;
// staff use their employee name and personnel number.
type LoginRequest struct {
	Username   string `json:"username"   binding:"required,max=100"`
	Credential string `json:"credential" binding:"required,max=200"`
}

// RefreshTokenRequest refresh token exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse issued token pair
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // access token lifetime in seconds
	User         SessionResponse `json:"user"`
}

// SessionResponse the caller's identity (GET /auth/me)
type SessionResponse struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id,omitempty"`
}
