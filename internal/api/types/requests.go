package types

// RegisterRequest is the body of POST /users and POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" example:"a@x.com"`
	Password string `json:"password" validate:"required,notblank,maxbytes=72" example:"p1"`
	Name     string `json:"name" validate:"required,notblank,max=100" example:"A"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,notblank" example:"a@x.com"`
	Password string `json:"password" validate:"required,notblank" example:"p1"`
}

// UpdateUserRequest is a partial update; absent fields are left unchanged.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,notblank,max=100" example:"B"`
	Active *bool   `json:"active,omitempty" example:"true"`
}
