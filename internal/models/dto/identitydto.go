package dto

// IdentityResponseDTO tells the view layer whether to render the authenticated
// page or the sign-up/login forms.
type IdentityResponseDTO struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}
