package upload

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/clinic-api/internal/middleware"
	usersvc "github.com/clinicore/clinic-api/internal/service/user"
	"github.com/clinicore/clinic-api/pkg/httputil"
	"github.com/clinicore/clinic-api/pkg/upload"
)

type Handler struct {
	storage *upload.Storage
	users   *usersvc.Service
}

func NewHandler(storage *upload.Storage, users *usersvc.Service) *Handler {
	return &Handler{storage: storage, users: users}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/uploads/avatar", h.UploadAvatar)
	r.POST("/uploads/:kind", h.Upload)
	r.POST("/uploads/:kind/batch", h.UploadBatch)
}

// Upload stores a file under the requested kind and returns its URL.
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httputil.BadRequest(c, "missing file field")
		return
	}

	url, err := h.storage.Save(c.Param("kind"), fh)
	if err != nil {
		h.saveError(c, err)
		return
	}
	httputil.Created(c, gin.H{"url": url})
}

// UploadBatch stores every file in the "files" multipart field. The batch is
// rejected wholesale if any single file fails validation, so callers never
// have to reconcile partial results.
func (h *Handler) UploadBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		httputil.BadRequest(c, "malformed multipart form")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		httputil.BadRequest(c, "missing files field")
		return
	}

	kind := c.Param("kind")
	for _, fh := range files {
		if err := h.storage.Validate(kind, fh); err != nil {
			h.saveError(c, err)
			return
		}
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.storage.Save(kind, fh)
		if err != nil {
			h.saveError(c, err)
			return
		}
		urls = append(urls, url)
	}
	httputil.Created(c, gin.H{"urls": urls})
}

// UploadAvatar stores the image and links it to the caller's profile.
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	fh, err := c.FormFile("file")
	if err != nil {
		httputil.BadRequest(c, "missing file field")
		return
	}

	url, err := h.storage.Save(upload.KindAvatar, fh)
	if err != nil {
		h.saveError(c, err)
		return
	}
	if err := h.users.SetAvatar(c.Request.Context(), userID, url); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, gin.H{"url": url})
}

func (h *Handler) saveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, upload.ErrTypeNotAllowed),
		errors.Is(err, upload.ErrUnknownKind):
		httputil.BadRequest(c, err.Error())
	default:
		httputil.Error(c, err)
	}
}
