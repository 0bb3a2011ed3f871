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

type HealthLogService struct {
	base
}

type CreateHealthLogInput struct {
	Date          *Date                     `json:"date"`
	HeartRate     *models.HeartRate         `json:"heartRate"`
	BloodPressure *models.BloodPressure     `json:"bloodPressure"`
	Weight        *models.Measurement       `json:"weight"`
	Height        *models.Measurement       `json:"height"`
	Temperature   *models.Temperature       `json:"temperature"`
	BloodSugar    *models.BloodSugar        `json:"bloodSugar"`
	Symptoms      []string                  `json:"symptoms"`
	Notes         string                    `json:"notes" binding:"max=1000"`
	Mood          string                    `json:"mood" binding:"omitempty,oneof=excellent good fair poor terrible"`
	Medications   []models.MedicationIntake `json:"medications" binding:"dive"`
	Exercise      *models.Exercise          `json:"exercise"`
	Sleep         *models.Sleep             `json:"sleep"`
}

type HealthLogQuery struct {
	PatientID string
	From      string
	To        string
}

type healthLogPatch struct {
	Date          *Date                      `json:"date"`
	HeartRate     *models.HeartRate          `json:"heartRate"`
	BloodPressure *models.BloodPressure      `json:"bloodPressure"`
	Weight        *models.Measurement        `json:"weight"`
	Height        *models.Measurement        `json:"height"`
	Temperature   *models.Temperature        `json:"temperature"`
	BloodSugar    *models.BloodSugar         `json:"bloodSugar"`
	Symptoms      *[]string                  `json:"symptoms"`
	Notes         *string                    `json:"notes" binding:"omitempty,max=1000"`
	Mood          *string                    `json:"mood" binding:"omitempty,oneof=excellent good fair poor terrible"`
	Medications   *[]models.MedicationIntake `json:"medications" binding:"omitempty,dive"`
	Exercise      *models.Exercise           `json:"exercise"`
	Sleep         *models.Sleep              `json:"sleep"`
}

func (p *healthLogPatch) apply(h *models.HealthLog) {
	if p.Date != nil && !p.Date.IsZero() {
		h.Date = p.Date.Time
	}
	if p.HeartRate != nil {
		h.HeartRate = p.HeartRate
	}
	if p.BloodPressure != nil {
		h.BloodPressure = p.BloodPressure
	}
	if p.Weight != nil {
		h.Weight = p.Weight
	}
	if p.Height != nil {
		h.Height = p.Height
	}
	if p.Temperature != nil {
		h.Temperature = p.Temperature
	}
	if p.BloodSugar != nil {
		h.BloodSugar = p.BloodSugar
	}
	if p.Symptoms != nil {
		h.Symptoms = *p.Symptoms
	}
	if p.Notes != nil {
		h.Notes = *p.Notes
	}
	if p.Mood != nil {
		h.Mood = *p.Mood
	}
	if p.Medications != nil {
		h.Medications = *p.Medications
	}
	if p.Exercise != nil {
		h.Exercise = p.Exercise
	}
	if p.Sleep != nil {
		h.Sleep = p.Sleep
	}
}

// Create records a health log for the acting patient. The date defaults to now.
func (s *HealthLogService) Create(ctx context.Context, actor authz.Actor, in CreateHealthLogInput) (*HealthLogView, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionCreate, authz.NewHealthLog()); err != nil {
		return nil, err
	}
	h := &models.HealthLog{
		PatientID:     actor.ID,
		Date:          s.now(),
		HeartRate:     in.HeartRate,
		BloodPressure: in.BloodPressure,
		Weight:        in.Weight,
		Height:        in.Height,
		Temperature:   in.Temperature,
		BloodSugar:    in.BloodSugar,
		Symptoms:      in.Symptoms,
		Notes:         in.Notes,
		Mood:          in.Mood,
		Medications:   in.Medications,
		Exercise:      in.Exercise,
		Sleep:         in.Sleep,
	}
	if in.Date != nil && !in.Date.IsZero() {
		h.Date = in.Date.Time
	}
	h.Normalize()
	if err := s.store.HealthLogs.Create(ctx, h); err != nil {
		return nil, err
	}
	return s.populate.HealthLog(ctx, h)
}

// List returns the patient's own logs, or any logs for admins. Doctors have
// no access to health logs.
func (s *HealthLogService) List(ctx context.Context, actor authz.Actor, q HealthLogQuery, p pagination.Params) ([]HealthLogView, int64, error) {
	f, err := s.filter(actor, q)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.store.HealthLogs.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.populate.HealthLogs(ctx, items)
	return views, total, err
}

func (s *HealthLogService) filter(actor authz.Actor, q HealthLogQuery) (store.HealthLogFilter, error) {
	var f store.HealthLogFilter
	if err := authz.RequireRole(actor, models.RolePatient); err != nil {
		return f, err
	}
	if actor.Is(models.RolePatient) {
		f.PatientID = actor.ID
	} else if q.PatientID != "" {
		id, err := ParseID(q.PatientID, "patient")
		if err != nil {
			return f, err
		}
		f.PatientID = id
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
		_, end := dayBounds(t)
		if len(q.To) > len("2006-01-02") {
			end = t
		}
		f.To = &end
	}
	return f, nil
}

func (s *HealthLogService) load(ctx context.Context, actor authz.Actor, id primitive.ObjectID, action authz.Action) (*models.HealthLog, error) {
	h, err := s.store.HealthLogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, action, authz.HealthLog(h)); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HealthLogService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*HealthLogView, error) {
	h, err := s.load(ctx, actor, id, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.populate.HealthLog(ctx, h)
}

func (s *HealthLogService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, body Patch) (*HealthLogView, error) {
	var p healthLogPatch
	if err := decodeUpdate(actor, authz.KindHealthLog, body, &p); err != nil {
		return nil, err
	}
	h, err := s.load(ctx, actor, id, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}
	p.apply(h)
	h.Normalize()
	if err := s.store.HealthLogs.Update(ctx, h); err != nil {
		return nil, err
	}
	return s.populate.HealthLog(ctx, h)
}

func (s *HealthLogService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if _, err := s.load(ctx, actor, id, authz.ActionDelete); err != nil {
		return err
	}
	return s.store.HealthLogs.Delete(ctx, id)
}

// HealthStats is the vitals summary over a set of logs.
type HealthStats struct {
	store.HealthSummary
	Latest *models.HealthLog `json:"latest"`
}

// Stats summarizes the patient's own logs. Admins get the system-wide
// summary, or one patient's with PatientID.
func (s *HealthLogService) Stats(ctx context.Context, actor authz.Actor, q HealthLogQuery) (*HealthStats, error) {
	f, err := s.filter(actor, q)
	if err != nil {
		return nil, err
	}
	sum, err := s.store.HealthLogs.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	sum.AvgHeartRate = round1(sum.AvgHeartRate)
	sum.AvgWeight = round1(sum.AvgWeight)
	sum.AvgSystolic = round1(sum.AvgSystolic)
	sum.AvgDiastolic = round1(sum.AvgDiastolic)

	out := &HealthStats{HealthSummary: sum}
	if !f.PatientID.IsZero() {
		latest, err := s.store.HealthLogs.Latest(ctx, f.PatientID)
		switch {
		case err == nil:
			out.Latest = latest
		case apperr.KindOf(err) != apperr.KindNotFound:
			return nil, err
		}
	}
	return out, nil
}
