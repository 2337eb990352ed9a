package router

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicore/clinic-api/config"
	"github.com/clinicore/clinic-api/internal/gateway"
	adminhandler "github.com/clinicore/clinic-api/internal/handler/admin"
	appointmenthandler "github.com/clinicore/clinic-api/internal/handler/appointment"
	authhandler "github.com/clinicore/clinic-api/internal/handler/auth"
	clinichandler "github.com/clinicore/clinic-api/internal/handler/clinic"
	consultationhandler "github.com/clinicore/clinic-api/internal/handler/consultation"
	doctorhandler "github.com/clinicore/clinic-api/internal/handler/doctor"
	healthhandler "github.com/clinicore/clinic-api/internal/handler/health"
	notificationhandler "github.com/clinicore/clinic-api/internal/handler/notification"
	specialtyhandler "github.com/clinicore/clinic-api/internal/handler/specialty"
	uploadhandler "github.com/clinicore/clinic-api/internal/handler/upload"
	userhandler "github.com/clinicore/clinic-api/internal/handler/user"
	waitinglisthandler "github.com/clinicore/clinic-api/internal/handler/waitinglist"
	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/pkg/auth"
)

// Handlers collects every route group the API serves
type Handlers struct {
	Health       *healthhandler.Handler
	Auth         *authhandler.Handler
	User         *userhandler.Handler
	Doctor       *doctorhandler.Handler
	Clinic       *clinichandler.Handler
	Specialty    *specialtyhandler.Handler
	Appointment  *appointmenthandler.Handler
	Consultation *consultationhandler.Handler
	WaitingList  *waitinglisthandler.Handler
	Notification *notificationhandler.Handler
	Admin        *adminhandler.Handler
	Upload       *uploadhandler.Handler
	Gateway      *gateway.Handler
}

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clinic",
	Name:      "http_requests_total",
	Help:      "HTTP requests by method, path and status",
}, []string{"method", "path", "status"})

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// New assembles the gin engine with the full middleware chain and all routes.
func New(cfg *config.Config, jwtService auth.JWTService, h Handlers) *gin.Engine {
	registerValidations()
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	r.Use(requestMetrics())
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Health.RegisterRoutes(r)
	r.Static("/uploads", cfg.Upload.BaseDir)

	v1 := r.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)

	protected := v1.Group("", middleware.Auth(jwtService))
	h.Doctor.RegisterRoutes(v1, protected)
	h.Clinic.RegisterRoutes(v1, protected)
	h.Specialty.RegisterRoutes(v1, protected)
	h.User.RegisterRoutes(protected)
	h.Appointment.RegisterRoutes(protected)
	h.Consultation.RegisterRoutes(protected)
	h.WaitingList.RegisterRoutes(protected)
	h.Notification.RegisterRoutes(protected)
	h.Upload.RegisterRoutes(protected)
	h.Gateway.RegisterRoutes(protected)

	admin := v1.Group("/admin", middleware.AdminAuth(jwtService))
	h.Admin.RegisterRoutes(admin)

	return r
}
