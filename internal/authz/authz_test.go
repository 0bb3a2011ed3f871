package authz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/models"
)

func actor(role models.Role) Actor {
	return Actor{ID: primitive.NewObjectID(), Role: role, Approved: true, Active: true}
}

func TestAdminAlwaysAllowed(t *testing.T) {
	admin := actor(models.RoleAdmin)
	res := Resource{Kind: KindHealthLog, PatientID: primitive.NewObjectID()}
	for _, a := range []Action{ActionRead, ActionUpdate, ActionDelete, ActionMarkRead, ActionAnswer} {
		assert.NoError(t, Authorize(admin, a, res), a)
	}
}

func TestAnonymousIsUnauthorized(t *testing.T) {
	err := Authorize(Actor{}, ActionRead, NewQuestion())
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestInactiveIsUnauthorized(t *testing.T) {
	p := actor(models.RolePatient)
	p.Active = false
	err := Authorize(p, ActionCreate, NewQuestion())
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestPatientOwnership(t *testing.T) {
	p := actor(models.RolePatient)
	other := primitive.NewObjectID()

	for _, kind := range []Kind{KindAppointment, KindHealthLog, KindQuestion, KindAdvice} {
		own := Resource{Kind: kind, PatientID: p.ID, DoctorID: other}
		notOwn := Resource{Kind: kind, PatientID: other, DoctorID: p.ID}
		assert.NoError(t, Authorize(p, ActionRead, own), kind)
		err := Authorize(p, ActionRead, notOwn)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), kind)
	}
}

func TestPatientCreates(t *testing.T) {
	p := actor(models.RolePatient)
	assert.NoError(t, Authorize(p, ActionCreate, NewAppointment()))
	assert.NoError(t, Authorize(p, ActionCreate, NewHealthLog()))
	assert.NoError(t, Authorize(p, ActionCreate, NewQuestion()))
	assert.Error(t, Authorize(p, ActionCreate, NewAdvice()))
}

func TestPatientMarkReadOnlyOwnAdvice(t *testing.T) {
	p := actor(models.RolePatient)
	assert.NoError(t, Authorize(p, ActionMarkRead, Resource{Kind: KindAdvice, PatientID: p.ID}))
	assert.Error(t, Authorize(p, ActionMarkRead, Resource{Kind: KindAdvice, PatientID: primitive.NewObjectID()}))

	d := actor(models.RoleDoctor)
	assert.Error(t, Authorize(d, ActionMarkRead, Resource{Kind: KindAdvice, DoctorID: d.ID}))
}

func TestDoctorAssigned(t *testing.T) {
	d := actor(models.RoleDoctor)
	patient := primitive.NewObjectID()

	for _, kind := range []Kind{KindAppointment, KindQuestion, KindAdvice} {
		assert.NoError(t, Authorize(d, ActionRead, Resource{Kind: kind, PatientID: patient, DoctorID: d.ID}), kind)
		err := Authorize(d, ActionRead, Resource{Kind: kind, PatientID: patient, DoctorID: primitive.NewObjectID()})
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), kind)
	}

	// open questions have no doctor yet
	assert.Error(t, Authorize(d, ActionRead, Resource{Kind: KindQuestion, PatientID: patient}))
	// health logs carry no doctor reference
	assert.Error(t, Authorize(d, ActionRead, Resource{Kind: KindHealthLog, PatientID: patient}))
}

func TestDoctorWritesAlways(t *testing.T) {
	d := actor(models.RoleDoctor)
	assert.NoError(t, Authorize(d, ActionCreate, NewAdvice()))
	assert.NoError(t, Authorize(d, ActionAnswer, Resource{Kind: KindQuestion, PatientID: primitive.NewObjectID()}))
	assert.Error(t, Authorize(d, ActionCreate, NewQuestion()))
	assert.Error(t, Authorize(d, ActionCreate, NewAppointment()))
}

func TestUnapprovedDoctor(t *testing.T) {
	d := actor(models.RoleDoctor)
	d.Approved = false

	err := Authorize(d, ActionCreate, NewAdvice())
	assert.ErrorIs(t, err, ErrPendingApproval)
	err = Authorize(d, ActionRead, Resource{Kind: KindAppointment, DoctorID: d.ID})
	assert.ErrorIs(t, err, ErrPendingApproval)

	// own profile stays reachable
	assert.NoError(t, Authorize(d, ActionRead, User(d.ID)))
	assert.NoError(t, Authorize(d, ActionUpdate, User(d.ID)))

	assert.ErrorIs(t, RequireRole(d, models.RoleDoctor), ErrPendingApproval)
}

func TestUserSelf(t *testing.T) {
	p := actor(models.RolePatient)
	assert.NoError(t, Authorize(p, ActionRead, User(p.ID)))
	assert.Error(t, Authorize(p, ActionRead, User(primitive.NewObjectID())))
	assert.Error(t, Authorize(p, ActionDelete, User(p.ID)))
}

func TestAuthorizeStatus(t *testing.T) {
	d := actor(models.RoleDoctor)
	p := actor(models.RolePatient)
	res := Resource{Kind: KindAppointment, PatientID: p.ID, DoctorID: d.ID}

	for _, s := range []models.AppointmentStatus{models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled} {
		assert.NoError(t, AuthorizeStatus(d, res, s), s)
	}
	err := AuthorizeStatus(d, res, models.StatusPending)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	assert.NoError(t, AuthorizeStatus(p, res, models.StatusCancelled))
	for _, s := range []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed, models.StatusCompleted} {
		err := AuthorizeStatus(p, res, s)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), s)
	}

	// a doctor who does not own the appointment is denied for any status
	stranger := actor(models.RoleDoctor)
	assert.Error(t, AuthorizeStatus(stranger, res, models.StatusConfirmed))

	err = AuthorizeStatus(actor(models.RoleAdmin), res, "bogus")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.NoError(t, AuthorizeStatus(actor(models.RoleAdmin), res, models.StatusPending))
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(actor(models.RolePatient), models.RolePatient))
	assert.NoError(t, RequireRole(actor(models.RoleAdmin), models.RolePatient))
	err := RequireRole(actor(models.RolePatient), models.RoleDoctor)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Error(t, RequireRole(actor(models.RoleDoctor)))
}

func TestFilterFields(t *testing.T) {
	body := map[string]json.RawMessage{
		"reason":  json.RawMessage(`"headache"`),
		"status":  json.RawMessage(`"completed"`),
		"patient": json.RawMessage(`"abc"`),
	}
	out := FilterFields(body, AllowedFields(KindAppointment, models.RolePatient))
	require.Len(t, out, 1)
	assert.Contains(t, out, "reason")

	assert.Empty(t, FilterFields(body, AllowedFields(KindAppointment, models.RoleDoctor)))
}

func TestUserFields(t *testing.T) {
	assert.Contains(t, UserFields(models.RoleDoctor, models.RoleDoctor), "specialization")
	assert.NotContains(t, UserFields(models.RoleDoctor, models.RoleDoctor), "isActive")
	assert.Contains(t, UserFields(models.RoleAdmin, models.RolePatient), "isActive")
	assert.Contains(t, UserFields(models.RolePatient, models.RolePatient), "bloodType")
	assert.NotContains(t, UserFields(models.RolePatient, models.RolePatient), "role")
}
