package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

// StatsService computes dashboard counters. Nothing is cached.
type StatsService struct {
	base
}

type AdminStats struct {
	TotalUsers            int64 `json:"totalUsers"`
	TotalDoctors          int64 `json:"totalDoctors"`
	TotalPatients         int64 `json:"totalPatients"`
	PendingApprovals      int64 `json:"pendingApprovals"`
	ActiveUsers           int64 `json:"activeUsers"`
	TotalAppointments     int64 `json:"totalAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	CompletionRate        int64 `json:"completionRate"`
}

type ReportItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type Reports struct {
	TotalAppointments     int64        `json:"totalAppointments"`
	UpcomingAppointments  int64        `json:"upcomingAppointments"`
	CompletedAppointments int64        `json:"completedAppointments"`
	TotalDoctors          int64        `json:"totalDoctors"`
	TotalPatients         int64        `json:"totalPatients"`
	CompletionRate        int64        `json:"completionRate"`
	Reports               []ReportItem `json:"reports"`
}

type DoctorStats struct {
	TotalAppointments     int64 `json:"totalAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	TotalPatients         int64 `json:"totalPatients"`
	NewQuestions          int64 `json:"newQuestions"`
	AnsweredQuestions     int64 `json:"answeredQuestions"`
	TodayAppointments     int64 `json:"todayAppointments"`
	TotalAdvice           int64 `json:"totalAdvice"`
	CompletionRate        int64 `json:"completionRate"`
}

type PatientCounts struct {
	TotalQuestions    int64 `json:"totalQuestions"`
	TotalAppointments int64 `json:"totalAppointments"`
	TotalAdvices      int64 `json:"totalAdvices"`
	UnreadAdvices     int64 `json:"unreadAdvices"`
}

type PatientStats struct {
	HeartRate     *models.HeartRate     `json:"heartRate"`
	BloodPressure *models.BloodPressure `json:"bloodPressure"`
	Weight        *models.Measurement   `json:"weight"`
	BMI           *float64              `json:"bmi"`
	LastCheckup   *time.Time            `json:"lastCheckup"`
	Stats         PatientCounts         `json:"stats"`
}

// count runs fn into dst inside the group.
func count(g *errgroup.Group, dst *int64, fn func() (int64, error)) {
	g.Go(func() error {
		n, err := fn()
		*dst = n
		return err
	})
}

func (s *StatsService) Admin(ctx context.Context, actor authz.Actor) (*AdminStats, error) {
	if err := authz.RequireRole(actor); err != nil {
		return nil, err
	}
	users, apts := s.store.Users, s.store.Appointments
	var out AdminStats
	g, ctx := errgroup.WithContext(ctx)
	count(g, &out.TotalUsers, func() (int64, error) { return users.Count(ctx, store.UserFilter{}) })
	count(g, &out.TotalDoctors, func() (int64, error) { return users.Count(ctx, store.UserFilter{Role: models.RoleDoctor}) })
	count(g, &out.TotalPatients, func() (int64, error) { return users.Count(ctx, store.UserFilter{Role: models.RolePatient}) })
	count(g, &out.PendingApprovals, func() (int64, error) {
		return users.Count(ctx, store.UserFilter{Role: models.RoleDoctor, Approved: store.BoolPtr(false)})
	})
	count(g, &out.ActiveUsers, func() (int64, error) { return users.Count(ctx, store.UserFilter{Active: store.BoolPtr(true)}) })
	count(g, &out.TotalAppointments, func() (int64, error) { return apts.Count(ctx, store.AppointmentFilter{}) })
	count(g, &out.CompletedAppointments, func() (int64, error) {
		return apts.Count(ctx, store.AppointmentFilter{Status: models.StatusCompleted})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.CompletionRate = percent(out.CompletedAppointments, out.TotalAppointments)
	return &out, nil
}

func (s *StatsService) Reports(ctx context.Context, actor authz.Actor) (*Reports, error) {
	if err := authz.RequireRole(actor); err != nil {
		return nil, err
	}
	users, apts := s.store.Users, s.store.Appointments
	var out Reports
	g, ctx := errgroup.WithContext(ctx)
	count(g, &out.TotalAppointments, func() (int64, error) { return apts.Count(ctx, store.AppointmentFilter{}) })
	count(g, &out.UpcomingAppointments, func() (int64, error) {
		return apts.Count(ctx, store.AppointmentFilter{Status: models.StatusPending})
	})
	count(g, &out.CompletedAppointments, func() (int64, error) {
		return apts.Count(ctx, store.AppointmentFilter{Status: models.StatusCompleted})
	})
	count(g, &out.TotalDoctors, func() (int64, error) { return users.Count(ctx, store.UserFilter{Role: models.RoleDoctor}) })
	count(g, &out.TotalPatients, func() (int64, error) { return users.Count(ctx, store.UserFilter{Role: models.RolePatient}) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.CompletionRate = percent(out.CompletedAppointments, out.TotalAppointments)
	out.Reports = []ReportItem{
		{Key: "totalAppointments", Label: "Total appointments", Value: out.TotalAppointments},
		{Key: "upcomingAppointments", Label: "Upcoming", Value: out.UpcomingAppointments},
		{Key: "completedAppointments", Label: "Completed", Value: out.CompletedAppointments},
		{Key: "totalDoctors", Label: "Total doctors", Value: out.TotalDoctors},
		{Key: "totalPatients", Label: "Total patients", Value: out.TotalPatients},
	}
	return &out, nil
}

// Doctor returns the acting doctor's counters. totalPatients counts the
// distinct patients that booked with them.
func (s *StatsService) Doctor(ctx context.Context, actor authz.Actor) (*DoctorStats, error) {
	if err := authz.RequireRole(actor, models.RoleDoctor); err != nil {
		return nil, err
	}
	if !actor.Is(models.RoleDoctor) {
		return nil, apperr.Forbidden("doctor access only")
	}
	me := actor.ID
	from, to := dayBounds(s.now())
	apts, qs := s.store.Appointments, s.store.Questions

	var out DoctorStats
	g, ctx := errgroup.WithContext(ctx)
	count(g, &out.TotalAppointments, func() (int64, error) { return apts.Count(ctx, store.AppointmentFilter{DoctorID: me}) })
	count(g, &out.CompletedAppointments, func() (int64, error) {
		return apts.Count(ctx, store.AppointmentFilter{DoctorID: me, Status: models.StatusCompleted})
	})
	count(g, &out.TotalPatients, func() (int64, error) {
		ids, err := apts.DistinctPatients(ctx, me)
		return int64(len(ids)), err
	})
	count(g, &out.NewQuestions, func() (int64, error) {
		return qs.Count(ctx, store.QuestionFilter{DoctorID: me, Status: models.QuestionPending})
	})
	count(g, &out.AnsweredQuestions, func() (int64, error) {
		return qs.Count(ctx, store.QuestionFilter{DoctorID: me, Status: models.QuestionAnswered})
	})
	count(g, &out.TodayAppointments, func() (int64, error) {
		return apts.Count(ctx, store.AppointmentFilter{DoctorID: me, From: &from, To: &to})
	})
	count(g, &out.TotalAdvice, func() (int64, error) { return s.store.Advice.Count(ctx, store.AdviceFilter{DoctorID: me}) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.CompletionRate = percent(out.CompletedAppointments, out.TotalAppointments)
	return &out, nil
}

// Patient returns the acting patient's latest vitals and counters.
// lastCheckup is the date of the most recent health log.
func (s *StatsService) Patient(ctx context.Context, actor authz.Actor) (*PatientStats, error) {
	if err := authz.RequireRole(actor, models.RolePatient); err != nil {
		return nil, err
	}
	if !actor.Is(models.RolePatient) {
		return nil, apperr.Forbidden("patient access only")
	}
	me := actor.ID

	var out PatientStats
	g, gctx := errgroup.WithContext(ctx)
	count(g, &out.Stats.TotalQuestions, func() (int64, error) {
		return s.store.Questions.Count(gctx, store.QuestionFilter{PatientID: me})
	})
	count(g, &out.Stats.TotalAppointments, func() (int64, error) {
		return s.store.Appointments.Count(gctx, store.AppointmentFilter{PatientID: me})
	})
	count(g, &out.Stats.TotalAdvices, func() (int64, error) {
		return s.store.Advice.Count(gctx, store.AdviceFilter{PatientID: me})
	})
	count(g, &out.Stats.UnreadAdvices, func() (int64, error) {
		return s.store.Advice.Count(gctx, store.AdviceFilter{PatientID: me, ActiveOnly: true, Unread: true})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	latest, err := s.store.HealthLogs.Latest(ctx, me)
	switch {
	case err == nil:
		out.HeartRate = latest.HeartRate
		out.BloodPressure = latest.BloodPressure
		out.Weight = latest.Weight
		out.BMI = latest.BMI
		d := latest.Date
		out.LastCheckup = &d
	case apperr.KindOf(err) != apperr.KindNotFound:
		return nil, err
	}
	return &out, nil
}
