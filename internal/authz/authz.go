// Package authz decides whether an actor may perform an action on a
// resource instance. It is the only place the role × ownership matrix lives.
package authz

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/models"
)

// Actor is the authenticated caller. The zero value is anonymous.
type Actor struct {
	ID       primitive.ObjectID
	Role     models.Role
	Approved bool
	Active   bool
}

// ActorFromUser builds the actor for a loaded user record.
func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, Approved: u.IsApproved, Active: u.IsActive}
}

func (a Actor) Authenticated() bool {
	return !a.ID.IsZero() && a.Role.Valid()
}

func (a Actor) Is(r models.Role) bool { return a.Role == r }

type Kind string

const (
	KindAppointment Kind = "appointment"
	KindHealthLog   Kind = "health log"
	KindQuestion    Kind = "question"
	KindAdvice      Kind = "advice"
	KindUser        Kind = "user"
)

type Action string

const (
	ActionRead      Action = "read"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionCancel    Action = "cancel"
	ActionSetStatus Action = "set status"
	ActionMarkRead  Action = "mark read"
	ActionFeedback  Action = "give feedback on"
	ActionAnswer    Action = "answer"
	ActionClose     Action = "close"
)

// Resource carries the raw reference ids used for ownership decisions.
type Resource struct {
	Kind      Kind
	PatientID primitive.ObjectID
	DoctorID  primitive.ObjectID
	OwnerID   primitive.ObjectID
}

func NewAppointment() Resource { return Resource{Kind: KindAppointment} }
func NewHealthLog() Resource   { return Resource{Kind: KindHealthLog} }
func NewQuestion() Resource    { return Resource{Kind: KindQuestion} }
func NewAdvice() Resource      { return Resource{Kind: KindAdvice} }

func Appointment(a *models.Appointment) Resource {
	return Resource{Kind: KindAppointment, PatientID: a.PatientID, DoctorID: a.DoctorID}
}

func HealthLog(h *models.HealthLog) Resource {
	return Resource{Kind: KindHealthLog, PatientID: h.PatientID}
}

func Question(q *models.Question) Resource {
	return Resource{Kind: KindQuestion, PatientID: q.PatientID, DoctorID: q.AssignedDoctor()}
}

func Advice(a *models.Advice) Resource {
	return Resource{Kind: KindAdvice, PatientID: a.PatientID, DoctorID: a.DoctorID}
}

func User(id primitive.ObjectID) Resource {
	return Resource{Kind: KindUser, OwnerID: id}
}

type relation int

const (
	always relation = iota + 1
	ownsAsPatient
	ownsAsDoctor
	self
)

type grant struct {
	kind   Kind
	action Action
}

// matrix lists every non-admin permission. Admins are allowed everything.
var matrix = map[models.Role]map[grant]relation{
	models.RolePatient: {
		{KindAppointment, ActionRead}:      ownsAsPatient,
		{KindAppointment, ActionCreate}:    always,
		{KindAppointment, ActionUpdate}:    ownsAsPatient,
		{KindAppointment, ActionCancel}:    ownsAsPatient,
		{KindAppointment, ActionSetStatus}: ownsAsPatient,
		{KindHealthLog, ActionRead}:        ownsAsPatient,
		{KindHealthLog, ActionCreate}:      always,
		{KindHealthLog, ActionUpdate}:      ownsAsPatient,
		{KindHealthLog, ActionDelete}:      ownsAsPatient,
		{KindQuestion, ActionRead}:         ownsAsPatient,
		{KindQuestion, ActionCreate}:       always,
		{KindQuestion, ActionUpdate}:       ownsAsPatient,
		{KindQuestion, ActionDelete}:       ownsAsPatient,
		{KindQuestion, ActionClose}:        ownsAsPatient,
		{KindAdvice, ActionRead}:           ownsAsPatient,
		{KindAdvice, ActionMarkRead}:       ownsAsPatient,
		{KindAdvice, ActionFeedback}:       ownsAsPatient,
		{KindUser, ActionRead}:             self,
		{KindUser, ActionUpdate}:           self,
	},
	models.RoleDoctor: {
		{KindAppointment, ActionRead}:      ownsAsDoctor,
		{KindAppointment, ActionUpdate}:    ownsAsDoctor,
		{KindAppointment, ActionCancel}:    ownsAsDoctor,
		{KindAppointment, ActionSetStatus}: ownsAsDoctor,
		{KindQuestion, ActionRead}:         ownsAsDoctor,
		{KindQuestion, ActionAnswer}:       always,
		{KindAdvice, ActionRead}:           ownsAsDoctor,
		{KindAdvice, ActionCreate}:         always,
		{KindAdvice, ActionUpdate}:         ownsAsDoctor,
		{KindUser, ActionRead}:             self,
		{KindUser, ActionUpdate}:           self,
	},
}

// ErrPendingApproval is returned for doctor actions taken before an admin
// has approved the account.
var ErrPendingApproval = apperr.Forbidden("doctor account pending approval")

// Authorize returns nil when actor may perform action on res, an
// unauthorized error for anonymous actors and a forbidden error otherwise.
func Authorize(actor Actor, action Action, res Resource) error {
	if !actor.Authenticated() {
		return apperr.Unauthorized("authentication required")
	}
	if !actor.Active {
		return apperr.Unauthorized("account is inactive")
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}

	rel, ok := matrix[actor.Role][grant{res.Kind, action}]
	if !ok {
		return deny(action, res.Kind)
	}
	if actor.Role == models.RoleDoctor && rel != self && !actor.Approved {
		return ErrPendingApproval
	}

	switch rel {
	case always:
		return nil
	case ownsAsPatient:
		if !res.PatientID.IsZero() && res.PatientID == actor.ID {
			return nil
		}
	case ownsAsDoctor:
		if !res.DoctorID.IsZero() && res.DoctorID == actor.ID {
			return nil
		}
	case self:
		if res.OwnerID == actor.ID {
			return nil
		}
	}
	return deny(action, res.Kind)
}

// AuthorizeStatus applies the status-specific narrowing on top of
// Authorize: doctors may confirm, complete or cancel their appointments and
// patients may only cancel theirs.
func AuthorizeStatus(actor Actor, res Resource, status models.AppointmentStatus) error {
	if !status.Valid() {
		return apperr.Validation("invalid status %q", status)
	}
	if err := Authorize(actor, ActionSetStatus, res); err != nil {
		return err
	}
	switch actor.Role {
	case models.RolePatient:
		if status != models.StatusCancelled {
			return apperr.Forbidden("patients may only cancel appointments")
		}
	case models.RoleDoctor:
		switch status {
		case models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled:
		default:
			return apperr.Forbidden(fmt.Sprintf("doctors may not set status %q", status))
		}
	}
	return nil
}

// RequireRole checks that the actor holds one of roles. Admins always
// pass; doctors only pass once approved.
func RequireRole(actor Actor, roles ...models.Role) error {
	if !actor.Authenticated() {
		return apperr.Unauthorized("authentication required")
	}
	if !actor.Active {
		return apperr.Unauthorized("account is inactive")
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	for _, r := range roles {
		if actor.Role != r {
			continue
		}
		if r == models.RoleDoctor && !actor.Approved {
			return ErrPendingApproval
		}
		return nil
	}
	return apperr.Forbidden(fmt.Sprintf("%s access only", joinRoles(roles)))
}

func deny(action Action, kind Kind) error {
	return apperr.Forbidden(fmt.Sprintf("not allowed to %s this %s", action, kind))
}

func joinRoles(roles []models.Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += " or "
		}
		out += string(r)
	}
	if out == "" {
		return "admin"
	}
	return out
}
