package handlers

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-appointment-scheduler/internal/application"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/pkg/response"
)

var (
	bookedTotal   = expvar.NewInt("appointments_booked_total")
	rejectedTotal = expvar.NewMap("appointments_rejected_total")
)

type AppointmentService interface {
	Book(ctx context.Context, id app.Identity, req app.BookingRequest) (*entity.Appointment, error)
	List(ctx context.Context, id app.Identity, page int) ([]entity.AppointmentView, error)
}

type AppointmentHandler struct {
	Svc    AppointmentService
	Logger *logrus.Logger
}

func NewAppointmentHandler(svc AppointmentService, logger *logrus.Logger) *AppointmentHandler {
	return &AppointmentHandler{Svc: svc, Logger: logger}
}

type appointmentResponse struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	ProviderID int64      `json:"provider_id"`
	Date       time.Time  `json:"date"`
	CanceledAt *time.Time `json:"canceled_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type appointmentListItem struct {
	ID       int64           `json:"id"`
	Date     time.Time       `json:"date"`
	Provider providerSummary `json:"provider"`
}

type providerSummary struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Avatar *fileResponse `json:"avatar"`
}

// Store POST /api/appointments
func (h *AppointmentHandler) Store(c *gin.Context) {
	var req app.BookingRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.Book(c.Request.Context(), identity(c), req)
	if err != nil {
		rejectedTotal.Add(rejectReason(err), 1)
		writeError(c, h.Logger, err)
		return
	}
	bookedTotal.Add(1)
	response.Success(c, http.StatusOK, appointmentResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		ProviderID: a.ProviderID,
		Date:       a.Date,
		CanceledAt: a.CanceledAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}, "appointment created", nil)
}

// Index GET /api/appointments?page=N
func (h *AppointmentHandler) Index(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "validation fails", map[string]string{"page": "must be a number"})
			return
		}
		page = n
	}
	views, err := h.Svc.List(c.Request.Context(), identity(c), page)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]appointmentListItem, 0, len(views))
	for _, v := range views {
		out = append(out, appointmentListItem{
			ID:   v.ID,
			Date: v.Date,
			Provider: providerSummary{
				ID:     v.Provider.ID,
				Name:   v.Provider.Name,
				Avatar: toFileResponse(v.Provider.Avatar),
			},
		})
	}
	response.Success(c, http.StatusOK, out, "appointments", map[string]any{"page": page, "per_page": app.PageSize})
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, app.ErrInvalidProvider):
		return "invalid_provider"
	case errors.Is(err, app.ErrPastDate):
		return "past_date"
	case errors.Is(err, app.ErrSlotUnavailable):
		return "slot_unavailable"
	default:
		var verr *app.ValidationError
		if errors.As(err, &verr) {
			return "validation"
		}
		return "other"
	}
}
