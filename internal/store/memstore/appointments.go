package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type AppointmentStore struct {
	t *table[models.Appointment]
}

func (s *AppointmentStore) Create(_ context.Context, a *models.Appointment) error {
	ensureID(&a.ID)
	stamp(&a.CreatedAt, &a.UpdatedAt)
	return s.t.insert(a.ID, a)
}

func (s *AppointmentStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	return s.t.get(id)
}

func (s *AppointmentStore) Update(_ context.Context, a *models.Appointment) error {
	a.UpdatedAt = now()
	return s.t.replace(a.ID, a)
}

func (s *AppointmentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

func (s *AppointmentStore) List(_ context.Context, f store.AppointmentFilter, p pagination.Params) ([]models.Appointment, int64, error) {
	less := func(a, b *models.Appointment) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}
	if f.Chronological {
		less = func(a, b *models.Appointment) bool {
			if !a.AppointmentDate.Equal(b.AppointmentDate) {
				return a.AppointmentDate.Before(b.AppointmentDate)
			}
			return a.TimeSlot.StartTime < b.TimeSlot.StartTime
		}
	}
	return listed(s.t, matchAppointment(f), less, p)
}

func (s *AppointmentStore) Count(_ context.Context, f store.AppointmentFilter) (int64, error) {
	return s.t.count(matchAppointment(f))
}

func (s *AppointmentStore) CountByStatus(_ context.Context, f store.AppointmentFilter) (map[models.AppointmentStatus]int64, error) {
	rows, err := s.t.all(matchAppointment(f))
	if err != nil {
		return nil, err
	}
	out := make(map[models.AppointmentStatus]int64)
	for _, a := range rows {
		out[a.Status]++
	}
	return out, nil
}

func (s *AppointmentStore) DistinctPatients(_ context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	rows, err := s.t.all(matchAppointment(store.AppointmentFilter{DoctorID: doctorID}))
	if err != nil {
		return nil, err
	}
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0)
	for _, a := range rows {
		if !seen[a.PatientID] {
			seen[a.PatientID] = true
			ids = append(ids, a.PatientID)
		}
	}
	return ids, nil
}

func matchAppointment(f store.AppointmentFilter) func(*models.Appointment) bool {
	return func(a *models.Appointment) bool {
		if !f.PatientID.IsZero() && a.PatientID != f.PatientID {
			return false
		}
		if !f.DoctorID.IsZero() && a.DoctorID != f.DoctorID {
			return false
		}
		if f.Status != "" && a.Status != f.Status {
			return false
		}
		return inRange(a.AppointmentDate, f.From, f.To)
	}
}
