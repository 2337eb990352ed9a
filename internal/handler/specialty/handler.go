package specialty

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	specialtysvc "github.com/clinicore/clinic-api/internal/service/specialty"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *specialtysvc.Service
}

func NewHandler(svc *specialtysvc.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts read endpoints on the public group and mutations on
// the authenticated one.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/specialties", h.List)
	public.GET("/specialties/:id", h.Get)

	admin := protected.Group("", middleware.RequireRoles(model.RoleAdmin))
	admin.POST("/specialties", h.Create)
	admin.DELETE("/specialties/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	specialty, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, specialty)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid specialty id")
		return
	}

	specialty, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, specialty)
}

func (h *Handler) List(c *gin.Context) {
	specialties, err := h.svc.List(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, specialties)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid specialty id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": true})
}
