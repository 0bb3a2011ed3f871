package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/store"
)

type UserService struct {
	base
}

type UserQuery struct {
	Role           string
	Search         string
	Specialization string
}

type userPatch struct {
	FullName          *string                  `json:"fullName" binding:"omitempty,max=100"`
	Email             *string                  `json:"email" binding:"omitempty,email"`
	PhoneNumber       *string                  `json:"phoneNumber" binding:"omitempty,max=20"`
	Address           *string                  `json:"address" binding:"omitempty,max=200"`
	DateOfBirth       *Date                    `json:"dateOfBirth"`
	Gender            *string                  `json:"gender" binding:"omitempty,oneof=male female other"`
	ProfilePicture    *string                  `json:"profilePicture"`
	Specialization    *string                  `json:"specialization" binding:"omitempty,max=100"`
	Experience        *int                     `json:"experience" binding:"omitempty,min=0,max=80"`
	Workplace         *string                  `json:"workplace" binding:"omitempty,max=200"`
	Education         *string                  `json:"education" binding:"omitempty,max=500"`
	Certifications    *[]string                `json:"certifications"`
	BloodType         *string                  `json:"bloodType" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies         *[]string                `json:"allergies"`
	ChronicConditions *[]string                `json:"chronicConditions"`
	EmergencyContact  *models.EmergencyContact `json:"emergencyContact"`
	IsActive          *bool                    `json:"isActive"`
}

func (p *userPatch) apply(u *models.User) error {
	if blank(p.FullName) {
		return apperr.Validation("fullName cannot be empty")
	}
	if p.FullName != nil {
		u.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = datePtr(p.DateOfBirth)
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.Specialization != nil {
		u.Specialization = *p.Specialization
	}
	if p.Experience != nil {
		u.Experience = *p.Experience
	}
	if p.Workplace != nil {
		u.Workplace = *p.Workplace
	}
	if p.Education != nil {
		u.Education = *p.Education
	}
	if p.Certifications != nil {
		u.Certifications = *p.Certifications
	}
	if p.BloodType != nil {
		u.BloodType = *p.BloodType
	}
	if p.Allergies != nil {
		u.Allergies = *p.Allergies
	}
	if p.ChronicConditions != nil {
		u.ChronicConditions = *p.ChronicConditions
	}
	if p.EmergencyContact != nil {
		u.EmergencyContact = p.EmergencyContact
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return nil
}

// List returns every user. Admin only.
func (s *UserService) List(ctx context.Context, actor authz.Actor, q UserQuery, p pagination.Params) ([]models.User, int64, error) {
	if err := authz.RequireRole(actor); err != nil {
		return nil, 0, err
	}
	f := store.UserFilter{Search: q.Search, Specialization: q.Specialization}
	if q.Role != "" {
		role, ok := models.ParseRole(q.Role)
		if !ok {
			return nil, 0, apperr.Validation("invalid role %q", q.Role)
		}
		f.Role = role
	}
	return s.store.Users.List(ctx, f, p)
}

// Doctors is the public directory: approved, active doctors only.
func (s *UserService) Doctors(ctx context.Context, q UserQuery, p pagination.Params) ([]models.User, int64, error) {
	return s.store.Users.List(ctx, store.UserFilter{
		Role:           models.RoleDoctor,
		Search:         q.Search,
		Specialization: q.Specialization,
		Approved:       store.BoolPtr(true),
		Active:         store.BoolPtr(true),
	}, p)
}

// Patients lists patient accounts for approved doctors and admins.
func (s *UserService) Patients(ctx context.Context, actor authz.Actor, q UserQuery, p pagination.Params) ([]models.User, int64, error) {
	if err := authz.RequireRole(actor, models.RoleDoctor); err != nil {
		return nil, 0, err
	}
	return s.store.Users.List(ctx, store.UserFilter{Role: models.RolePatient, Search: q.Search}, p)
}

func (s *UserService) PendingDoctors(ctx context.Context, actor authz.Actor, p pagination.Params) ([]models.User, int64, error) {
	if err := authz.RequireRole(actor); err != nil {
		return nil, 0, err
	}
	return s.store.Users.List(ctx, store.UserFilter{Role: models.RoleDoctor, Approved: store.BoolPtr(false)}, p)
}

func (s *UserService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*models.User, error) {
	u, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionRead, authz.User(u.ID)); err != nil {
		return nil, err
	}
	return u, nil
}

// Update changes a profile. The writable fields depend on the target's role,
// so the target is loaded before the body is decoded.
func (s *UserService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, body Patch) (*models.User, error) {
	u, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionUpdate, authz.User(u.ID)); err != nil {
		return nil, err
	}
	var p userPatch
	if err := decodePatch(body, authz.UserFields(actor.Role, u.Role), &p); err != nil {
		return nil, err
	}
	if err := p.apply(u); err != nil {
		return nil, err
	}
	if err := s.store.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if err := authz.RequireRole(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return apperr.Validation("admins cannot delete their own account")
	}
	if err := s.store.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id.Hex()).Str("by", actor.ID.Hex()).Msg("user deleted")
	return nil
}

// Approve lets a doctor act as one. The account is reactivated as well.
func (s *UserService) Approve(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*models.User, error) {
	return s.setApproval(ctx, actor, id, true)
}

// Reject revokes approval and deactivates the account.
func (s *UserService) Reject(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*models.User, error) {
	return s.setApproval(ctx, actor, id, false)
}

func (s *UserService) setApproval(ctx context.Context, actor authz.Actor, id primitive.ObjectID, approved bool) (*models.User, error) {
	if err := authz.RequireRole(actor); err != nil {
		return nil, err
	}
	u, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleDoctor {
		return nil, apperr.Validation("user is not a doctor")
	}
	u.IsApproved = approved
	u.IsActive = approved
	if err := s.store.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.ID.Hex()).Bool("approved", approved).Msg("doctor approval changed")
	return u, nil
}
