package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
	"github.com/harentsoaR/healthcare-portal/internal/models"
)

func advise(t *testing.T, e *env, doctor authz.Actor, patient *models.User, title, category string) *AdviceView {
	t.Helper()
	v, err := e.svc.Advice.Create(context.Background(), doctor, CreateAdviceInput{
		PatientID: patient.ID.Hex(),
		Title:     title,
		Content:   "Follow these steps",
		Category:  category,
		Recommendations: []models.Recommendation{
			{Title: "Walk daily", Frequency: "daily"},
		},
	})
	require.NoError(t, err)
	return v
}

func TestCreateAdvice(t *testing.T) {
	e := newEnv(t)
	_, annUser := e.patient(t, "ann")
	grey, greyUser := e.doctor(t, "grey", true)

	v := advise(t, e, grey, annUser, "Low salt diet", "cardiology")
	assert.Equal(t, greyUser.ID, v.DoctorID)
	assert.Equal(t, annUser.ID, v.PatientID)
	assert.True(t, v.IsActive)
	assert.False(t, v.IsRead)
	assert.Equal(t, "general", v.Type)
	assert.Equal(t, "medium", v.Priority)
	require.NotNil(t, v.Patient)
	assert.Equal(t, "ann", v.Patient.FullName)
	assert.Equal(t, []string{"Low salt diet"}, e.notifier.advice)
}

func TestCreateAdvice_Rules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann, annUser := e.patient(t, "ann")
	grey, greyUser := e.doctor(t, "grey", true)
	pending, _ := e.doctor(t, "shepherd", false)

	in := CreateAdviceInput{PatientID: annUser.ID.Hex(), Title: "T", Content: "C"}

	_, err := e.svc.Advice.Create(ctx, pending, in)
	assert.ErrorIs(t, err, authz.ErrPendingApproval)

	_, err = e.svc.Advice.Create(ctx, ann, in)
	assertKind(t, apperr.KindForbidden, err)

	toDoctor := in
	toDoctor.PatientID = greyUser.ID.Hex()
	_, err = e.svc.Advice.Create(ctx, grey, toDoctor)
	assertKind(t, apperr.KindValidation, err)

	missing := in
	missing.PatientID = "64b7f0c2a1b2c3d4e5f60718"
	_, err = e.svc.Advice.Create(ctx, grey, missing)
	assertKind(t, apperr.KindValidation, err)

	badType := in
	badType.Type = "magic"
	_, err = e.svc.Advice.Create(ctx, grey, badType)
	assertKind(t, apperr.KindValidation, err)

	badMed := in
	badMed.Medications = []models.PrescribedMedication{{Name: "Aspirin"}}
	_, err = e.svc.Advice.Create(ctx, grey, badMed)
	assertKind(t, apperr.KindValidation, err)

	assert.Empty(t, e.notifier.advice)
}

func TestMarkRead_IsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann, annUser := e.patient(t, "ann")
	bob, _ := e.patient(t, "bob")
	grey, _ := e.doctor(t, "grey", true)
	a := advise(t, e, grey, annUser, "Sleep more", "general")

	_, err := e.svc.Advice.MarkRead(ctx, bob, a.ID)
	assertKind(t, apperr.KindForbidden, err)
	_, err = e.svc.Advice.MarkRead(ctx, grey, a.ID)
	assertKind(t, apperr.KindForbidden, err)

	first, err := e.svc.Advice.MarkRead(ctx, ann, a.ID)
	require.NoError(t, err)
	assert.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)
	readAt := *first.ReadAt

	e.clock = e.clock.Add(time.Hour)
	second, err := e.svc.Advice.MarkRead(ctx, ann, a.ID)
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, readAt.Equal(*second.ReadAt))

	third, err := e.svc.Advice.MarkRead(ctx, e.admin, a.ID)
	require.NoError(t, err)
	assert.True(t, readAt.Equal(*third.ReadAt))
}

func TestAdviceFeedback(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann, annUser := e.patient(t, "ann")
	bob, _ := e.patient(t, "bob")
	grey, _ := e.doctor(t, "grey", true)
	a := advise(t, e, grey, annUser, "Drink water", "general")

	_, err := e.svc.Advice.Feedback(ctx, ann, a.ID, FeedbackInput{Rating: 6})
	assertKind(t, apperr.KindValidation, err)
	_, err = e.svc.Advice.Feedback(ctx, ann, a.ID, FeedbackInput{Rating: 0})
	assertKind(t, apperr.KindValidation, err)
	_, err = e.svc.Advice.Feedback(ctx, bob, a.ID, FeedbackInput{Rating: 4})
	assertKind(t, apperr.KindForbidden, err)
	_, err = e.svc.Advice.Feedback(ctx, grey, a.ID, FeedbackInput{Rating: 4})
	assertKind(t, apperr.KindForbidden, err)

	helpful := true
	v, err := e.svc.Advice.Feedback(ctx, ann, a.ID, FeedbackInput{Rating: 5, Comment: "Thanks", Helpful: &helpful})
	require.NoError(t, err)
	require.NotNil(t, v.PatientFeedback)
	assert.Equal(t, 5, v.PatientFeedback.Rating)
	assert.Equal(t, e.clock, v.PatientFeedback.FeedbackDate)
}

func TestAdviceListings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann, annUser := e.patient(t, "ann")
	_, bobUser := e.patient(t, "bob")
	grey, _ := e.doctor(t, "grey", true)
	shep, _ := e.doctor(t, "shepherd", true)

	a1 := advise(t, e, grey, annUser, "Cardio 1", "cardiology")
	advise(t, e, grey, bobUser, "Cardio 2", "cardiology")
	advise(t, e, shep, annUser, "Neuro", "neurology")

	_, err := e.svc.Advice.Update(ctx, e.admin, a1.ID, patch(t, map[string]any{"isActive": false}))
	require.NoError(t, err)

	items, total, err := e.svc.Advice.List(ctx, ann, AdviceQuery{}, page())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Neuro", items[0].Title)

	_, total, err = e.svc.Advice.List(ctx, grey, AdviceQuery{}, page())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = e.svc.Advice.DoctorList(ctx, shep, AdviceQuery{}, page())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = e.svc.Advice.List(ctx, e.admin, AdviceQuery{Category: "cardiology"}, page())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	public, total, err := e.svc.Advice.ByCategory(ctx, "cardiology", page())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Nil(t, public[0].Patient)
	assert.Nil(t, public[0].PatientFeedback)
	require.NotNil(t, public[0].Doctor)
	assert.Empty(t, public[0].Doctor.Email)

	_, _, err = e.svc.Advice.ByCategory(ctx, "astrology", page())
	assertKind(t, apperr.KindValidation, err)
}

func TestAdviceUpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann, annUser := e.patient(t, "ann")
	grey, _ := e.doctor(t, "grey", true)
	shep, _ := e.doctor(t, "shepherd", true)
	a := advise(t, e, grey, annUser, "Original", "general")

	_, err := e.svc.Advice.Update(ctx, shep, a.ID, patch(t, map[string]any{"title": "Hijack"}))
	assertKind(t, apperr.KindForbidden, err)
	_, err = e.svc.Advice.Update(ctx, ann, a.ID, patch(t, map[string]any{"title": "Mine"}))
	assertKind(t, apperr.KindForbidden, err)

	// doctors cannot deactivate or reassign advice
	_, err = e.svc.Advice.Update(ctx, grey, a.ID, patch(t, map[string]any{"isActive": false, "patient": "x"}))
	assertKind(t, apperr.KindValidation, err)

	v, err := e.svc.Advice.Update(ctx, grey, a.ID, patch(t, map[string]any{"title": "Revised", "priority": "urgent"}))
	require.NoError(t, err)
	assert.Equal(t, "Revised", v.Title)
	assert.Equal(t, "urgent", v.Priority)
	assert.True(t, v.IsActive)

	assertKind(t, apperr.KindForbidden, e.svc.Advice.Delete(ctx, grey, a.ID))
	assertKind(t, apperr.KindForbidden, e.svc.Advice.Delete(ctx, ann, a.ID))
	require.NoError(t, e.svc.Advice.Delete(ctx, e.admin, a.ID))
	_, err = e.svc.Advice.Get(ctx, e.admin, a.ID)
	assertKind(t, apperr.KindNotFound, err)
}
