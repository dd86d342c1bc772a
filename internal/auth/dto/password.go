package dto

type EmailInput struct {
	Email string `json:"email"`
}

type ResetPasswordInput struct {
	Password string `json:"password"`
}
