package dto

type LoginRequestDTO struct {
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}

type LoginResponseDTO struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}
