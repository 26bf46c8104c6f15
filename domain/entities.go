package domain

// UserData is the authenticated user profile returned by the auth API.
// Token is non-empty whenever a session is authenticated.
type UserData struct {
	Name        string `json:"user_name"`
	PhoneNumber string `json:"user_number"`
	Token       string `json:"token,omitempty"`
}
