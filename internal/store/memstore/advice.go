package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type AdviceStore struct {
	t *table[models.Advice]
}

func (s *AdviceStore) Create(_ context.Context, a *models.Advice) error {
	ensureID(&a.ID)
	stamp(&a.CreatedAt, &a.UpdatedAt)
	return s.t.insert(a.ID, a)
}

func (s *AdviceStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Advice, error) {
	return s.t.get(id)
}

func (s *AdviceStore) Update(_ context.Context, a *models.Advice) error {
	a.UpdatedAt = now()
	return s.t.replace(a.ID, a)
}

func (s *AdviceStore) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

func (s *AdviceStore) List(_ context.Context, f store.AdviceFilter, p pagination.Params) ([]models.Advice, int64, error) {
	return listed(s.t, matchAdvice(f), func(a, b *models.Advice) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}, p)
}

func (s *AdviceStore) Count(_ context.Context, f store.AdviceFilter) (int64, error) {
	return s.t.count(matchAdvice(f))
}

func matchAdvice(f store.AdviceFilter) func(*models.Advice) bool {
	return func(a *models.Advice) bool {
		if !f.PatientID.IsZero() && a.PatientID != f.PatientID {
			return false
		}
		if !f.DoctorID.IsZero() && a.DoctorID != f.DoctorID {
			return false
		}
		if f.Category != "" && a.Category != f.Category {
			return false
		}
		if f.Type != "" && a.Type != f.Type {
			return false
		}
		if f.ActiveOnly && !a.IsActive {
			return false
		}
		if f.Unread && a.IsRead {
			return false
		}
		return true
	}
}
