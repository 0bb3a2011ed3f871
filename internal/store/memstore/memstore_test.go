package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

func TestUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Users.Create(ctx, &models.User{FullName: "Ann", Email: "Ann@Example.com", Role: models.RolePatient}))
	err := s.Users.Create(ctx, &models.User{FullName: "Other", Email: "ann@example.com ", Role: models.RolePatient})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	u, err := s.Users.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.FullName)
}

func TestUsers_CopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{FullName: "Ann", Email: "ann@example.com", Allergies: []string{"pollen"}}
	require.NoError(t, s.Users.Create(ctx, u))

	got, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Allergies[0] = "changed"
	got.FullName = "changed"

	again, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.FullName)
	assert.Equal(t, []string{"pollen"}, again.Allergies)
}

func TestUsers_FilterAndSearch(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed := []models.User{
		{FullName: "Dr. Alice Heart", Email: "alice@clinic.com", Role: models.RoleDoctor, Specialization: "Cardiology", IsApproved: true, IsActive: true},
		{FullName: "Dr. Bob Skin", Email: "bob@clinic.com", Role: models.RoleDoctor, Specialization: "Dermatology", IsApproved: false, IsActive: true},
		{FullName: "Carol", Email: "carol@mail.com", Role: models.RolePatient, IsApproved: true, IsActive: true},
	}
	for i := range seed {
		require.NoError(t, s.Users.Create(ctx, &seed[i]))
	}

	approved := store.UserFilter{Role: models.RoleDoctor, Approved: store.BoolPtr(true), Active: store.BoolPtr(true)}
	docs, total, err := s.Users.List(ctx, approved, pagination.Default())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Dr. Alice Heart", docs[0].FullName)

	n, err := s.Users.Count(ctx, store.UserFilter{Search: "CLINIC"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = s.Users.Count(ctx, store.UserFilter{Specialization: "cardiology"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUsers_GetManySkipsMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Email: "a@b.c"}
	require.NoError(t, s.Users.Create(ctx, u))

	got, err := s.Users.GetMany(ctx, []primitive.ObjectID{u.ID, primitive.NewObjectID(), u.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, u.ID)
}

func TestPage_OutOfRange(t *testing.T) {
	less := func(a, b *int) bool { return *a < *b }

	rows, total := page([]int{3, 1, 2}, less, pagination.Params{Page: pagination.MaxPage, Limit: pagination.MaxLimit})
	assert.Empty(t, rows)
	assert.EqualValues(t, 3, total)

	// a skip that wrapped negative must not panic
	rows, total = page([]int{3, 1, 2}, less, pagination.Params{Page: -5, Limit: 10})
	assert.Empty(t, rows)
	assert.EqualValues(t, 3, total)
}

func TestAppointments_PagingAndCounts(t *testing.T) {
	ctx := context.Background()
	s := New()
	doctor, patientA, patientB := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	statuses := []models.AppointmentStatus{
		models.StatusPending, models.StatusCompleted, models.StatusCompleted,
		models.StatusCancelled, models.StatusPending,
	}
	for i, st := range statuses {
		patient := patientA
		if i%2 == 1 {
			patient = patientB
		}
		require.NoError(t, s.Appointments.Create(ctx, &models.Appointment{
			PatientID: patient, DoctorID: doctor, Status: st,
			AppointmentDate: time.Date(2025, 3, 1+i, 0, 0, 0, 0, time.UTC),
		}))
	}

	items, total, err := s.Appointments.List(ctx, store.AppointmentFilter{DoctorID: doctor}, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, items, 2)

	items, _, err = s.Appointments.List(ctx, store.AppointmentFilter{DoctorID: doctor}, pagination.Params{Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	counts, err := s.Appointments.CountByStatus(ctx, store.AppointmentFilter{DoctorID: doctor})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[models.StatusPending])
	assert.EqualValues(t, 2, counts[models.StatusCompleted])
	assert.EqualValues(t, 1, counts[models.StatusCancelled])

	patients, err := s.Appointments.DistinctPatients(ctx, doctor)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{patientA, patientB}, patients)

	from := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	n, err := s.Appointments.Count(ctx, store.AppointmentFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	chrono, _, err := s.Appointments.List(ctx, store.AppointmentFilter{Chronological: true}, pagination.Default())
	require.NoError(t, err)
	assert.True(t, chrono[0].AppointmentDate.Before(chrono[1].AppointmentDate))
}

func TestHealthLogs_LatestAndSummary(t *testing.T) {
	ctx := context.Background()
	s := New()
	patient := primitive.NewObjectID()
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	logs := []models.HealthLog{
		{PatientID: patient, Date: day(1), HeartRate: &models.HeartRate{Value: 60}, Weight: &models.Measurement{Value: 70}},
		{PatientID: patient, Date: day(3), HeartRate: &models.HeartRate{Value: 80}},
		{PatientID: patient, Date: day(2), BloodPressure: &models.BloodPressure{Systolic: 120, Diastolic: 80}},
		{PatientID: primitive.NewObjectID(), Date: day(9), HeartRate: &models.HeartRate{Value: 200}},
	}
	for i := range logs {
		require.NoError(t, s.HealthLogs.Create(ctx, &logs[i]))
	}

	latest, err := s.HealthLogs.Latest(ctx, patient)
	require.NoError(t, err)
	assert.Equal(t, day(3), latest.Date)

	sum, err := s.HealthLogs.Summary(ctx, store.HealthLogFilter{PatientID: patient})
	require.NoError(t, err)
	assert.EqualValues(t, 3, sum.Count)
	assert.InDelta(t, 70, sum.AvgHeartRate, 0.001)
	assert.InDelta(t, 70, sum.AvgWeight, 0.001)
	assert.InDelta(t, 120, sum.AvgSystolic, 0.001)
	require.NotNil(t, sum.LatestDate)
	assert.Equal(t, day(3), *sum.LatestDate)

	_, err = s.HealthLogs.Latest(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestQuestions_AssignedOrOpen(t *testing.T) {
	ctx := context.Background()
	s := New()
	doctor, other := primitive.NewObjectID(), primitive.NewObjectID()
	qs := []models.Question{
		{PatientID: primitive.NewObjectID(), Title: "Chest pain", Status: models.QuestionPending},
		{PatientID: primitive.NewObjectID(), Title: "Rash", DoctorID: &doctor, Status: models.QuestionAnswered},
		{PatientID: primitive.NewObjectID(), Title: "Headache", DoctorID: &other, Status: models.QuestionPending},
	}
	for i := range qs {
		require.NoError(t, s.Questions.Create(ctx, &qs[i]))
	}

	n, err := s.Questions.Count(ctx, store.QuestionFilter{DoctorID: doctor, AssignedOrOpen: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = s.Questions.Count(ctx, store.QuestionFilter{DoctorID: doctor})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.Questions.Count(ctx, store.QuestionFilter{Search: "PAIN"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAdvice_UpdateDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	err := s.Advice.Update(ctx, &models.Advice{ID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	err = s.Advice.Delete(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	a := &models.Advice{Title: "Walk daily", IsActive: true}
	require.NoError(t, s.Advice.Create(ctx, a))
	n, err := s.Advice.Count(ctx, store.AdviceFilter{ActiveOnly: true, Unread: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
