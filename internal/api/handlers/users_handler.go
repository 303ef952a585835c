package handlers

import (
	"net/http"
	"strconv"

	"github.com/standard-backend/userapi/internal/api/middleware"
	"github.com/standard-backend/userapi/internal/api/types"
	"github.com/standard-backend/userapi/internal/models"
	"github.com/standard-backend/userapi/internal/repository"
	"github.com/standard-backend/userapi/internal/services"
)

type UsersHandler struct {
	users services.UserService
}

func NewUsersHandler(users services.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create godoc
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      types.RegisterRequest  true  "registration"
// @Success      201   {object}  types.APIResponse{data=models.UserResponse}
// @Failure      400   {object}  types.APIResponse
// @Failure      409   {object}  types.APIResponse
// @Router       /users [post]
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	register(h.users, w, r)
}

// Get godoc
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "user id"
// @Success      200  {object}  types.APIResponse{data=models.UserResponse}
// @Failure      404  {object}  types.APIResponse
// @Router       /users/{id} [get]
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: u.Response()})
}

// List godoc
// @Summary      List active users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int     false  "1-based page"          default(1)
// @Param        size  query     int     false  "page size (max 100)"   default(10)
// @Param        sort  query     string  false  "field[,asc|desc]"      default(name)
// @Success      200   {object}  types.APIResponse{data=[]models.UserResponse}
// @Router       /users [get]
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if size == 0 {
		size, _ = strconv.Atoi(q.Get("page_size"))
	}
	column, desc, err := repository.ParseSort(q.Get("sort"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	p := repository.Page{Number: page, Size: size, Sort: column, Desc: desc}.Normalized()
	items, total, err := h.users.List(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]models.UserResponse, 0, len(items))
	for i := range items {
		out = append(out, items[i].Response())
	}
	sort := p.Sort
	if p.Desc {
		sort += ",desc"
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    out,
		Meta:    &types.Meta{Page: p.Number, PageSize: p.Size, Total: total, Sort: sort},
	})
}

// Update godoc
// @Summary      Update your own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                      true  "user id"
// @Param        body  body      types.UpdateUserRequest  true  "fields to change"
// @Success      200   {object}  types.APIResponse{data=models.UserResponse}
// @Failure      403   {object}  types.APIResponse
// @Failure      404   {object}  types.APIResponse
// @Router       /users/{id} [put]
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.users.Update(r.Context(), id, middleware.GetCallerEmail(r.Context()), services.UpdateInput{
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: u.Response()})
}

// Delete godoc
// @Summary      Deactivate your own account
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "user id"
// @Success      204
// @Failure      403  {object}  types.APIResponse
// @Failure      404  {object}  types.APIResponse
// @Router       /users/{id} [delete]
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.users.Delete(r.Context(), id, middleware.GetCallerEmail(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
