package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type QuestionStore struct {
	t *table[models.Question]
}

func (s *QuestionStore) Create(_ context.Context, q *models.Question) error {
	ensureID(&q.ID)
	stamp(&q.CreatedAt, &q.UpdatedAt)
	return s.t.insert(q.ID, q)
}

func (s *QuestionStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	return s.t.get(id)
}

func (s *QuestionStore) Update(_ context.Context, q *models.Question) error {
	q.UpdatedAt = now()
	return s.t.replace(q.ID, q)
}

func (s *QuestionStore) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

func (s *QuestionStore) List(_ context.Context, f store.QuestionFilter, p pagination.Params) ([]models.Question, int64, error) {
	return listed(s.t, matchQuestion(f), func(a, b *models.Question) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}, p)
}

func (s *QuestionStore) Count(_ context.Context, f store.QuestionFilter) (int64, error) {
	return s.t.count(matchQuestion(f))
}

func matchQuestion(f store.QuestionFilter) func(*models.Question) bool {
	return func(q *models.Question) bool {
		if !f.PatientID.IsZero() && q.PatientID != f.PatientID {
			return false
		}
		if !f.DoctorID.IsZero() {
			assigned := q.DoctorID != nil && *q.DoctorID == f.DoctorID
			open := q.DoctorID == nil || q.DoctorID.IsZero()
			if !assigned && !(f.AssignedOrOpen && open) {
				return false
			}
		}
		if f.Status != "" && q.Status != f.Status {
			return false
		}
		if f.Category != "" && q.Category != f.Category {
			return false
		}
		if f.Search != "" && !containsFold(q.Title, f.Search) && !containsFold(q.Content, f.Search) {
			return false
		}
		return true
	}
}
