package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/court-rental-backend/internal/user"
)

type UserHandler struct {
	userService  user.Service
	jwtManager   *auth.JWTManager
	secureCookie bool
}

func NewHandler(userService user.Service, jwtManager *auth.JWTManager, secureCookie bool) *UserHandler {
	return &UserHandler{
		userService:  userService,
		jwtManager:   jwtManager,
		secureCookie: secureCookie,
	}
}

// Register handles POST /users. Name and email are required; password is optional.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	u, err := h.userService.Register(c.Request.Context(), user.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "user created", NewUserResponse(u))
}

// IssueToken handles POST /jwt. It signs a token for a registered user and
// sets it as an HTTP-only cookie.
func (h *UserHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	u, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.Email, string(u.EffectiveRole()))
	if err != nil {
		response.Error(c, err)
		return
	}

	auth.SetTokenCookie(c, token, int(h.jwtManager.TTL().Seconds()), h.secureCookie)
	response.Message(c, "token issued")
}

// Logout handles POST /logout by expiring the token cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	auth.ClearTokenCookie(c, h.secureCookie)
	response.Message(c, "logged out")
}

// List retrieves a paginated list of users.
// Access Control: admin only.
func (h *UserHandler) List(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	filter := user.UserFilter{
		Email:     req.Email,
		Name:      req.Name,
		Role:      user.Role(req.Role),
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}

	response.Page(c, items, req.Page, req.PageSize, total)
}

// ListMembers handles GET /members?name=.
// Access Control: admin only.
func (h *UserHandler) ListMembers(c *gin.Context) {
	var req ListMembersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	users, total, err := h.userService.ListMembers(c.Request.Context(), req.Name, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}

	response.Page(c, items, req.Page, req.PageSize, total)
}

// GetByEmail handles GET /users/:email.
// Access Control: the user themself or an admin.
func (h *UserHandler) GetByEmail(c *gin.Context) {
	var uri EmailURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	if !h.isSelfOrAdmin(c, uri.Email) {
		response.Fail(c, http.StatusForbidden, "forbidden access")
		return
	}

	u, err := h.userService.GetByEmail(c.Request.Context(), uri.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewUserResponse(u))
}

// GetRole handles GET /users/role/:email.
func (h *UserHandler) GetRole(c *gin.Context) {
	var uri EmailURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, err)
		return
	}

	role, err := h.userService.GetRole(c.Request.Context(), uri.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, RoleResponse{UserRole: string(role)})
}

// Delete permanently removes a user.
// Access Control: admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "user deleted")
}

func (h *UserHandler) isSelfOrAdmin(c *gin.Context, email string) bool {
	return user.IsSelfOrAdmin(c.Request.Context(), h.userService, auth.GetUserEmail(c), email)
}
