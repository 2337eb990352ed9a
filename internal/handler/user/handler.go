package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	usersvc "github.com/clinicore/clinic-api/internal/service/user"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *usersvc.Service
}

func NewHandler(svc *usersvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users/me", h.Me)
	r.GET("/users/me/profile", h.MyProfile)
	r.PUT("/users/me/profile", h.UpdateMyProfile)

	admin := r.Group("", middleware.RequireRoles(model.RoleAdmin))
	admin.POST("/users", h.Create)
	admin.GET("/users", h.List)
	admin.GET("/users/:id", h.Get)
	admin.PUT("/users/:id", h.Update)
	admin.DELETE("/users/:id", h.Delete)
}

func (h *Handler) Me(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	user, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, user)
}

func (h *Handler) MyProfile(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	profile, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, profile)
}

func (h *Handler) UpdateMyProfile(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, profile)
}

func (h *Handler) Create(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)

	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, user)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, user)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.UserFilters{
		Role:       c.Query("role"),
		SearchTerm: c.Query("search"),
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	if active := c.Query("is_active"); active != "" {
		value := active == "true"
		filters.IsActive = &value
	}

	users, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, users, filters.Page, filters.PageSize, total)
}

func (h *Handler) Update(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid user id")
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), actorID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, user)
}

func (h *Handler) Delete(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid user id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorID, id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": true})
}
