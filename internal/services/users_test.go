package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
)

func TestDoctors_OnlyApprovedAndActive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, approved := e.doctor(t, "grey", true)
	_, pending := e.doctor(t, "shepherd", false)
	_, rejected := e.doctor(t, "burke", true)
	_, err := e.svc.Users.Reject(ctx, e.admin, rejected.ID)
	require.NoError(t, err)

	docs, total, err := e.svc.Users.Doctors(ctx, UserQuery{}, page())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, docs, 1)
	assert.Equal(t, approved.ID, docs[0].ID)

	pendingList, _, err := e.svc.Users.PendingDoctors(ctx, e.admin, page())
	require.NoError(t, err)
	ids := make(map[string]bool)
	for _, d := range pendingList {
		ids[d.ID.Hex()] = true
	}
	assert.True(t, ids[pending.ID.Hex()])
	assert.True(t, ids[rejected.ID.Hex()])
}

func TestApproveAndReject(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	docActor, doc := e.doctor(t, "grey", false)
	patientActor, patient := e.patient(t, "ann")

	_, err := e.svc.Users.Approve(ctx, patientActor, doc.ID)
	assertKind(t, apperr.KindForbidden, err)
	_, err = e.svc.Users.Approve(ctx, docActor, doc.ID)
	assertKind(t, apperr.KindForbidden, err)
	_, err = e.svc.Users.Approve(ctx, e.admin, patient.ID)
	assertKind(t, apperr.KindValidation, err)

	u, err := e.svc.Users.Approve(ctx, e.admin, doc.ID)
	require.NoError(t, err)
	assert.True(t, u.IsApproved)
	assert.True(t, u.IsActive)

	u, err = e.svc.Users.Reject(ctx, e.admin, doc.ID)
	require.NoError(t, err)
	assert.False(t, u.IsApproved)
	assert.False(t, u.IsActive)
}

func TestPatients_RequiresApprovedDoctor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pendingDoc, _ := e.doctor(t, "shepherd", false)
	doc, _ := e.doctor(t, "grey", true)
	patientActor, _ := e.patient(t, "ann")
	e.patient(t, "bob")

	_, _, err := e.svc.Users.Patients(ctx, pendingDoc, UserQuery{}, page())
	assert.ErrorIs(t, err, authz.ErrPendingApproval)

	_, _, err = e.svc.Users.Patients(ctx, patientActor, UserQuery{}, page())
	assertKind(t, apperr.KindForbidden, err)

	list, total, err := e.svc.Users.Patients(ctx, doc, UserQuery{Search: "BOB"}, page())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "bob", list[0].FullName)
}

func TestUserGetAndUpdate_SelfOrAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann, annUser := e.patient(t, "ann")
	_, bobUser := e.patient(t, "bob")

	_, err := e.svc.Users.Get(ctx, ann, bobUser.ID)
	assertKind(t, apperr.KindForbidden, err)
	got, err := e.svc.Users.Get(ctx, ann, annUser.ID)
	require.NoError(t, err)
	assert.Equal(t, annUser.Email, got.Email)

	_, err = e.svc.Users.Update(ctx, ann, bobUser.ID, patch(t, map[string]any{"fullName": "Hacked"}))
	assertKind(t, apperr.KindForbidden, err)

	// isActive is only writable by admins
	_, err = e.svc.Users.Update(ctx, ann, annUser.ID, patch(t, map[string]any{"isActive": false}))
	assertKind(t, apperr.KindValidation, err)

	u, err := e.svc.Users.Update(ctx, e.admin, bobUser.ID, patch(t, map[string]any{"isActive": false, "allergies": []string{"nuts"}}))
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.Equal(t, []string{"nuts"}, u.Allergies)
}

func TestUserUpdate_FieldsFollowTargetRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	doc, docUser := e.doctor(t, "grey", true)

	_, err := e.svc.Users.Update(ctx, doc, docUser.ID, patch(t, map[string]any{"bloodType": "A+"}))
	assertKind(t, apperr.KindValidation, err)

	u, err := e.svc.Users.Update(ctx, doc, docUser.ID, patch(t, map[string]any{"workplace": "Seattle Grace", "experience": 12}))
	require.NoError(t, err)
	assert.Equal(t, "Seattle Grace", u.Workplace)
	assert.Equal(t, 12, u.Experience)
}

func TestUserDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann, annUser := e.patient(t, "ann")

	assertKind(t, apperr.KindForbidden, e.svc.Users.Delete(ctx, ann, annUser.ID))
	assertKind(t, apperr.KindValidation, e.svc.Users.Delete(ctx, e.admin, e.admin.ID))

	require.NoError(t, e.svc.Users.Delete(ctx, e.admin, annUser.ID))
	_, err := e.svc.Users.Get(ctx, e.admin, annUser.ID)
	assertKind(t, apperr.KindNotFound, err)
}

func TestUserList_AdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann, _ := e.patient(t, "ann")
	e.doctor(t, "grey", true)

	_, _, err := e.svc.Users.List(ctx, ann, UserQuery{}, page())
	assertKind(t, apperr.KindForbidden, err)

	_, total, err := e.svc.Users.List(ctx, e.admin, UserQuery{}, page())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, total, err = e.svc.Users.List(ctx, e.admin, UserQuery{Role: "Doctor"}, page())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, _, err = e.svc.Users.List(ctx, e.admin, UserQuery{Role: "nurse"}, page())
	assertKind(t, apperr.KindValidation, err)
}
