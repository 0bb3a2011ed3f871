package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type AppointmentService struct {
	base
}

type CreateAppointmentInput struct {
	DoctorID        string              `json:"doctor" binding:"required,objectid"`
	AppointmentDate Date                `json:"appointmentDate"`
	TimeSlot        models.TimeSlot     `json:"timeSlot"`
	Type            string              `json:"type" binding:"omitempty,oneof=consultation followup checkup emergency telemedicine"`
	Reason          string              `json:"reason" binding:"required,max=500"`
	Symptoms        []string            `json:"symptoms"`
	ContactInfo     *models.ContactInfo `json:"contactInfo"`
	PatientNotes    string              `json:"patientNotes" binding:"max=1000"`
}

type AppointmentQuery struct {
	Status    string
	PatientID string
	DoctorID  string
	From      string
	To        string
}

type StatusInput struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=500"`
}

type appointmentPatch struct {
	AppointmentDate *Date               `json:"appointmentDate"`
	TimeSlot        *models.TimeSlot    `json:"timeSlot"`
	Type            *string             `json:"type" binding:"omitempty,oneof=consultation followup checkup emergency telemedicine"`
	Reason          *string             `json:"reason" binding:"omitempty,max=500"`
	Symptoms        *[]string           `json:"symptoms"`
	PatientNotes    *string             `json:"patientNotes" binding:"omitempty,max=1000"`
	DoctorNotes     *string             `json:"doctorNotes" binding:"omitempty,max=1000"`
	Examination     *models.Examination `json:"examination"`
}

func (p *appointmentPatch) apply(a *models.Appointment) error {
	if blank(p.Reason) {
		return apperr.Validation("reason cannot be empty")
	}
	if p.AppointmentDate != nil {
		if p.AppointmentDate.IsZero() {
			return apperr.Validation("appointmentDate is required")
		}
		a.AppointmentDate = p.AppointmentDate.Time
	}
	if p.TimeSlot != nil {
		slot := *p.TimeSlot
		slot.Duration = 0
		if err := slot.Validate(); err != nil {
			return apperr.Validation("%s", err.Error())
		}
		a.TimeSlot = slot
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Reason != nil {
		a.Reason = *p.Reason
	}
	if p.Symptoms != nil {
		a.Symptoms = *p.Symptoms
	}
	if p.PatientNotes != nil {
		a.PatientNotes = *p.PatientNotes
	}
	if p.DoctorNotes != nil {
		a.DoctorNotes = *p.DoctorNotes
	}
	if p.Examination != nil {
		a.Examination = p.Examination
	}
	return nil
}

// Create books an appointment for the acting patient with an approved,
// active doctor. The patient is always the actor.
func (s *AppointmentService) Create(ctx context.Context, actor authz.Actor, in CreateAppointmentInput) (*AppointmentView, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	if in.AppointmentDate.IsZero() {
		return nil, apperr.Validation("appointmentDate is required")
	}
	slot := in.TimeSlot
	if err := slot.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if err := authz.Authorize(actor, authz.ActionCreate, authz.NewAppointment()); err != nil {
		return nil, err
	}
	doctorID, err := ParseID(in.DoctorID, "doctor")
	if err != nil {
		return nil, err
	}
	if err := s.requireAvailableDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	a := &models.Appointment{
		PatientID:       actor.ID,
		DoctorID:        doctorID,
		AppointmentDate: in.AppointmentDate.Time,
		TimeSlot:        slot,
		Type:            in.Type,
		Status:          models.StatusPending,
		Reason:          in.Reason,
		Symptoms:        in.Symptoms,
		ContactInfo:     in.ContactInfo,
		PatientNotes:    in.PatientNotes,
	}
	if a.Type == "" {
		a.Type = "consultation"
	}
	if err := s.store.Appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.populate.Appointment(ctx, a)
}

func (s *AppointmentService) requireAvailableDoctor(ctx context.Context, id primitive.ObjectID) error {
	doc, err := s.store.Users.GetByID(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return apperr.Validation("doctor not found")
	}
	if err != nil {
		return err
	}
	if doc.Role != models.RoleDoctor || !doc.IsApproved || !doc.IsActive {
		return apperr.Validation("doctor is not available")
	}
	return nil
}

// List scopes appointments to the actor: patients see theirs, doctors the
// ones assigned to them and admins everything.
func (s *AppointmentService) List(ctx context.Context, actor authz.Actor, q AppointmentQuery, p pagination.Params) ([]AppointmentView, int64, error) {
	f, err := appointmentFilter(q)
	if err != nil {
		return nil, 0, err
	}
	switch actor.Role {
	case models.RolePatient:
		if err := authz.RequireRole(actor, models.RolePatient); err != nil {
			return nil, 0, err
		}
		f.PatientID = actor.ID
	case models.RoleDoctor:
		if err := authz.RequireRole(actor, models.RoleDoctor); err != nil {
			return nil, 0, err
		}
		f.DoctorID = actor.ID
	default:
		if err := authz.RequireRole(actor); err != nil {
			return nil, 0, err
		}
		if q.PatientID != "" {
			if f.PatientID, err = ParseID(q.PatientID, "patient"); err != nil {
				return nil, 0, err
			}
		}
		if q.DoctorID != "" {
			if f.DoctorID, err = ParseID(q.DoctorID, "doctor"); err != nil {
				return nil, 0, err
			}
		}
	}
	return s.list(ctx, f, p)
}

// Schedule lists the acting doctor's appointments in date order, optionally
// for a single day.
func (s *AppointmentService) Schedule(ctx context.Context, actor authz.Actor, day string, p pagination.Params) ([]AppointmentView, int64, error) {
	if err := authz.RequireRole(actor, models.RoleDoctor); err != nil {
		return nil, 0, err
	}
	f := store.AppointmentFilter{DoctorID: actor.ID, Chronological: true}
	if day != "" {
		t, err := ParseDate(day)
		if err != nil {
			return nil, 0, err
		}
		from, to := dayBounds(t)
		f.From, f.To = &from, &to
	}
	return s.list(ctx, f, p)
}

func (s *AppointmentService) list(ctx context.Context, f store.AppointmentFilter, p pagination.Params) ([]AppointmentView, int64, error) {
	items, total, err := s.store.Appointments.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.populate.Appointments(ctx, items)
	return views, total, err
}

func appointmentFilter(q AppointmentQuery) (store.AppointmentFilter, error) {
	var f store.AppointmentFilter
	if q.Status != "" {
		st := models.AppointmentStatus(q.Status)
		if !st.Valid() {
			return f, apperr.Validation("invalid status %q", q.Status)
		}
		f.Status = st
	}
	if q.From != "" {
		t, err := ParseDate(q.From)
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if q.To != "" {
		t, err := ParseDate(q.To)
		if err != nil {
			return f, err
		}
		// a bare day includes the whole day
		_, end := dayBounds(t)
		if len(q.To) > len("2006-01-02") {
			end = t
		}
		f.To = &end
	}
	return f, nil
}

func (s *AppointmentService) load(ctx context.Context, actor authz.Actor, id primitive.ObjectID, action authz.Action) (*models.Appointment, error) {
	a, err := s.store.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, action, authz.Appointment(a)); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*AppointmentView, error) {
	a, err := s.load(ctx, actor, id, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.populate.Appointment(ctx, a)
}

// Update applies the role's whitelisted fields. Status changes go through
// UpdateStatus.
func (s *AppointmentService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, body Patch) (*AppointmentView, error) {
	var p appointmentPatch
	if err := decodeUpdate(actor, authz.KindAppointment, body, &p); err != nil {
		return nil, err
	}
	a, err := s.load(ctx, actor, id, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := p.apply(a); err != nil {
		return nil, err
	}
	if err := s.store.Appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.populate.Appointment(ctx, a)
}

// UpdateStatus moves the appointment to a new status. Doctors may confirm,
// complete or cancel; patients may only cancel.
func (s *AppointmentService) UpdateStatus(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in StatusInput) (*AppointmentView, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	status := models.AppointmentStatus(in.Status)
	if !status.Valid() {
		return nil, apperr.Validation("invalid status %q", in.Status)
	}
	a, err := s.store.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeStatus(actor, authz.Appointment(a), status); err != nil {
		return nil, err
	}

	a.Status = status
	if status == models.StatusCancelled {
		a.Cancellation = &models.Cancellation{CancelledBy: actor.Role, Reason: in.Reason, CancelledAt: s.now()}
	} else {
		a.Cancellation = nil
	}
	if err := s.store.Appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	s.notifyPatient(ctx, a)
	return s.populate.Appointment(ctx, a)
}

// Cancel cancels an appointment on behalf of either party or an admin.
// Completed appointments cannot be cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, actor authz.Actor, id primitive.ObjectID, reason string) (*AppointmentView, error) {
	a, err := s.load(ctx, actor, id, authz.ActionCancel)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case models.StatusCompleted:
		return nil, apperr.Conflict("completed appointments cannot be cancelled")
	case models.StatusCancelled:
		return s.populate.Appointment(ctx, a)
	}

	a.Status = models.StatusCancelled
	a.Cancellation = &models.Cancellation{CancelledBy: actor.Role, Reason: reason, CancelledAt: s.now()}
	if err := s.store.Appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	s.notifyPatient(ctx, a)
	return s.populate.Appointment(ctx, a)
}

type StatusCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

// StatusCounts groups appointments by status, for the acting doctor or,
// for admins, across the system.
func (s *AppointmentService) StatusCounts(ctx context.Context, actor authz.Actor) (*StatusCounts, error) {
	if err := authz.RequireRole(actor, models.RoleDoctor); err != nil {
		return nil, err
	}
	var f store.AppointmentFilter
	if actor.Is(models.RoleDoctor) {
		f.DoctorID = actor.ID
	}
	counts, err := s.store.Appointments.CountByStatus(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &StatusCounts{
		Pending:   counts[models.StatusPending],
		Confirmed: counts[models.StatusConfirmed],
		Completed: counts[models.StatusCompleted],
		Cancelled: counts[models.StatusCancelled],
	}
	for _, n := range counts {
		out.Total += n
	}
	return out, nil
}

func (s *AppointmentService) notifyPatient(ctx context.Context, a *models.Appointment) {
	patient, err := s.store.Users.GetByID(ctx, a.PatientID)
	if err != nil {
		s.log.Warn().Err(err).Str("appointment_id", a.ID.Hex()).Msg("notification skipped")
		return
	}
	s.notifier.AppointmentStatusChanged(patient, a)
}
