package dto

// SignupRequestDTO carries the sign-up form. Field names match the HTML form.
type SignupRequestDTO struct {
	Username        string `json:"username" mapstructure:"username"`
	Password        string `json:"password" mapstructure:"password"`
	PasswordConfirm string `json:"password_confirm" mapstructure:"password_confirm"`
}

// MessagesResponseDTO is returned on success and failure alike; exactly one of
// the lists is populated.
type MessagesResponseDTO struct {
	Messages []string `json:"messages,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}
