package memstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type HealthLogStore struct {
	t *table[models.HealthLog]
}

func latestFirst(a, b *models.HealthLog) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
}

func (s *HealthLogStore) Create(_ context.Context, h *models.HealthLog) error {
	ensureID(&h.ID)
	stamp(&h.CreatedAt, &h.UpdatedAt)
	return s.t.insert(h.ID, h)
}

func (s *HealthLogStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.HealthLog, error) {
	return s.t.get(id)
}

func (s *HealthLogStore) Latest(_ context.Context, patientID primitive.ObjectID) (*models.HealthLog, error) {
	rows, _, err := listed(s.t, matchHealthLog(store.HealthLogFilter{PatientID: patientID}), latestFirst, pagination.Params{Page: 1, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("health log")
	}
	return &rows[0], nil
}

func (s *HealthLogStore) Update(_ context.Context, h *models.HealthLog) error {
	h.UpdatedAt = now()
	return s.t.replace(h.ID, h)
}

func (s *HealthLogStore) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

func (s *HealthLogStore) List(_ context.Context, f store.HealthLogFilter, p pagination.Params) ([]models.HealthLog, int64, error) {
	return listed(s.t, matchHealthLog(f), latestFirst, p)
}

func (s *HealthLogStore) Count(_ context.Context, f store.HealthLogFilter) (int64, error) {
	return s.t.count(matchHealthLog(f))
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) { m.sum += v; m.n++ }

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

func (s *HealthLogStore) Summary(_ context.Context, f store.HealthLogFilter) (store.HealthSummary, error) {
	rows, err := s.t.all(matchHealthLog(f))
	if err != nil {
		return store.HealthSummary{}, err
	}

	var heart, weight, sys, dia mean
	var latest *time.Time
	for i := range rows {
		h := &rows[i]
		if h.HeartRate != nil {
			heart.add(h.HeartRate.Value)
		}
		if h.Weight != nil {
			weight.add(h.Weight.Value)
		}
		if h.BloodPressure != nil {
			sys.add(h.BloodPressure.Systolic)
			dia.add(h.BloodPressure.Diastolic)
		}
		if latest == nil || h.Date.After(*latest) {
			d := h.Date
			latest = &d
		}
	}
	return store.HealthSummary{
		Count:        int64(len(rows)),
		AvgHeartRate: heart.value(),
		AvgWeight:    weight.value(),
		AvgSystolic:  sys.value(),
		AvgDiastolic: dia.value(),
		LatestDate:   latest,
	}, nil
}

func matchHealthLog(f store.HealthLogFilter) func(*models.HealthLog) bool {
	return func(h *models.HealthLog) bool {
		if !f.PatientID.IsZero() && h.PatientID != f.PatientID {
			return false
		}
		return inRange(h.Date, f.From, f.To)
	}
}
