package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/internal/service/consultation"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin through the SPA host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated participants onto their consultation room
type Handler struct {
	hub           *Hub
	consultations *consultation.Service
	appointments  repository.AppointmentRepository
	doctors       repository.DoctorRepository
}

func NewHandler(hub *Hub, consultations *consultation.Service, appointments repository.AppointmentRepository, doctors repository.DoctorRepository) *Handler {
	return &Handler{hub: hub, consultations: consultations, appointments: appointments, doctors: doctors}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/consultations/:id/ws", h.Connect)
}

// Connect upgrades the request to a websocket after verifying the caller is
// a participant of the consultation.
func (h *Handler) Connect(c *gin.Context) {
	consultationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation id")
		return
	}
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	cons, err := h.consultations.Get(c.Request.Context(), consultationID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	if !h.isParticipant(c.Request.Context(), cons, userID, middleware.RoleFromContext(c)) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, consultationID, userID, h.handleInbound)
	go client.Serve(context.Background())
}

// NotifyStarted announces a consultation start to connected clients.
func (h *Handler) NotifyStarted(consultationID uuid.UUID) {
	h.hub.Broadcast(Event{Type: EventStarted, ConsultationID: consultationID})
}

// NotifyEnded announces a consultation end to connected clients.
func (h *Handler) NotifyEnded(consultationID uuid.UUID) {
	h.hub.Broadcast(Event{Type: EventEnded, ConsultationID: consultationID})
}

func (h *Handler) isParticipant(ctx context.Context, cons *model.Consultation, userID uuid.UUID, role string) bool {
	if role == model.RoleAdmin {
		return true
	}
	appointment, err := h.appointments.Get(ctx, cons.AppointmentID)
	if err != nil {
		return false
	}
	if appointment.PatientID == userID {
		return true
	}
	if doctor, err := h.doctors.GetByUserID(ctx, userID); err == nil && doctor != nil {
		return doctor.ID == appointment.DoctorID
	}
	return false
}

func (h *Handler) handleInbound(ctx context.Context, client *Client, event Event) {
	switch event.Type {
	case EventMessage:
		var req model.CreateMessageRequest
		if err := json.Unmarshal(event.Payload, &req); err != nil || req.Content == "" {
			client.sendError("malformed message payload")
			return
		}
		message, err := h.consultations.SendMessage(ctx, client.consultationID, client.userID, &req)
		if err != nil {
			client.sendError(err.Error())
			return
		}
		payload, err := json.Marshal(message)
		if err != nil {
			return
		}
		h.hub.Broadcast(Event{
			Type:           EventMessage,
			ConsultationID: client.consultationID,
			SenderID:       client.userID,
			Payload:        payload,
		})
	case EventTyping:
		// Ephemeral, relayed without persistence.
		h.hub.Broadcast(event)
	case EventRead:
		count, err := h.consultations.MarkMessagesRead(ctx, client.consultationID, client.userID)
		if err != nil {
			client.sendError(err.Error())
			return
		}
		payload, _ := json.Marshal(map[string]int64{"count": count})
		h.hub.Broadcast(Event{
			Type:           EventRead,
			ConsultationID: client.consultationID,
			SenderID:       client.userID,
			Payload:        payload,
		})
	default:
		client.sendError("unknown event type")
	}
}
