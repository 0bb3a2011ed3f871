package memstore

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type UserStore struct {
	t *table[models.User]
	// unique serializes the email uniqueness check with the write.
	unique sync.Mutex
}

var errDuplicateEmail = apperr.Conflict("An account with this email already exists")

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *UserStore) emailTaken(email string, except primitive.ObjectID) (bool, error) {
	n, err := s.t.count(func(u *models.User) bool {
		return u.Email == email && u.ID != except
	})
	return n > 0, err
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	ensureID(&u.ID)
	u.Email = normalizeEmail(u.Email)
	stamp(&u.CreatedAt, &u.UpdatedAt)

	s.unique.Lock()
	defer s.unique.Unlock()
	taken, err := s.emailTaken(u.Email, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return errDuplicateEmail
	}
	return s.t.insert(u.ID, u)
}

func (s *UserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.t.get(id)
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	rows, err := s.t.all(func(u *models.User) bool { return u.Email == email })
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("user")
	}
	return &rows[0], nil
}

func (s *UserStore) GetMany(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		u, err := s.t.get(id)
		if apperr.KindOf(err) == apperr.KindNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = u
	}
	return out, nil
}

func (s *UserStore) Update(_ context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	u.UpdatedAt = now()

	s.unique.Lock()
	defer s.unique.Unlock()
	taken, err := s.emailTaken(u.Email, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return errDuplicateEmail
	}
	return s.t.replace(u.ID, u)
}

func (s *UserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

func (s *UserStore) List(_ context.Context, f store.UserFilter, p pagination.Params) ([]models.User, int64, error) {
	return listed(s.t, matchUser(f), func(a, b *models.User) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	}, p)
}

func (s *UserStore) Count(_ context.Context, f store.UserFilter) (int64, error) {
	return s.t.count(matchUser(f))
}

func matchUser(f store.UserFilter) func(*models.User) bool {
	return func(u *models.User) bool {
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		if f.Specialization != "" && !strings.EqualFold(u.Specialization, f.Specialization) {
			return false
		}
		if f.Approved != nil && u.IsApproved != *f.Approved {
			return false
		}
		if f.Active != nil && u.IsActive != *f.Active {
			return false
		}
		if f.Search != "" && !containsFold(u.FullName, f.Search) && !containsFold(u.Email, f.Search) {
			return false
		}
		return true
	}
}
