package dtos

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// FieldInputRequest carries text field input events for a form instance.
type FieldInputRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}
