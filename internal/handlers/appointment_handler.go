package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/services"
)

// --- CREATE APPOINTMENT ---
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req services.CreateAppointmentInput
	if !h.bind(c, &req) {
		return
	}
	apt, err := h.svc.Appointments.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusCreated, "Appointment booked", apt)
}

// --- GET APPOINTMENTS (with Filtering) ---
// Accepts status, patientId, doctorId and a from/to (or startDate/endDate) range.
func (h *Handler) GetAppointments(c *gin.Context) {
	p := pagination.FromContext(c)
	q := services.AppointmentQuery{
		Status:    c.Query("status"),
		PatientID: query(c, "patientId", "patient"),
		DoctorID:  query(c, "doctorId", "doctor"),
		From:      query(c, "from", "startDate"),
		To:        query(c, "to", "endDate"),
	}
	items, total, err := h.svc.Appointments.List(c.Request.Context(), middleware.ActorFrom(c), q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

// DoctorSchedule lists the doctor's appointments in date order, optionally
// for ?date=YYYY-MM-DD.
func (h *Handler) DoctorSchedule(c *gin.Context) {
	p := pagination.FromContext(c)
	items, total, err := h.svc.Appointments.Schedule(c.Request.Context(), middleware.ActorFrom(c), c.Query("date"), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

func (h *Handler) AppointmentStats(c *gin.Context) {
	counts, err := h.svc.Appointments.StatusCounts(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, counts)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := h.id(c, "appointment")
	if !ok {
		return
	}
	apt, err := h.svc.Appointments.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, apt)
}

// --- UPDATE APPOINTMENT ---
func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := h.id(c, "appointment")
	if !ok {
		return
	}
	body, ok := h.patch(c)
	if !ok {
		return
	}
	apt, err := h.svc.Appointments.Update(c.Request.Context(), middleware.ActorFrom(c), id, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Appointment updated", apt)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := h.id(c, "appointment")
	if !ok {
		return
	}
	var req services.StatusInput
	if !h.bind(c, &req) {
		return
	}
	apt, err := h.svc.Appointments.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Appointment status updated", apt)
}

// --- CANCEL APPOINTMENT ---
// The body is optional and may carry a reason.
func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := h.id(c, "appointment")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"max=500"`
	}
	if c.Request.ContentLength > 0 && !h.bind(c, &req) {
		return
	}
	apt, err := h.svc.Appointments.Cancel(c.Request.Context(), middleware.ActorFrom(c), id, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Appointment cancelled", apt)
}
