package handlers

import (
	"net/http"
	"strconv"

	"github.com/standard-backend/userapi/internal/api/types"
	"github.com/standard-backend/userapi/internal/services"
)

type AuthHandler struct {
	auth  services.AuthService
	users services.UserService
}

func NewAuthHandler(auth services.AuthService, users services.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      types.RegisterRequest  true  "registration"
// @Success      201   {object}  types.APIResponse{data=models.UserResponse}
// @Failure      400   {object}  types.APIResponse
// @Failure      409   {object}  types.APIResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	register(h.users, w, r)
}

// Login godoc
// @Summary      Exchange credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      types.LoginRequest  true  "credentials"
// @Success      200   {object}  types.APIResponse{data=types.LoginResponse}
// @Failure      400   {object}  types.APIResponse
// @Failure      401   {object}  types.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: types.LoginResponse{
			Token:     res.Token,
			TokenType: "Bearer",
			ExpiresIn: int64(res.ExpiresIn.Seconds()),
			Email:     res.Email,
			Name:      res.Name,
		},
	})
}

func register(users services.UserService, w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := users.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/users/"+strconv.FormatUint(u.ID, 10))
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: u.Response()})
}
