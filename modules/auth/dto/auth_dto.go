package dto

// LoginResponse is returned after a successful Google callback exchange.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

// CheckResponse reports the session state for the frontend.
type CheckResponse struct {
	Authenticated     bool   `json:"authenticated"`
	Email             string `json:"email,omitempty"`
	CalendarConnected bool   `json:"calendar_connected"`
}
