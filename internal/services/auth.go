package services

import (
	"context"
	"strings"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/authz"
	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

type AuthService struct {
	base
	tokens *utils.TokenManager
	hasher *utils.PasswordHasher
}

type RegisterInput struct {
	FullName       string `json:"fullName" binding:"required,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Role           string `json:"role" binding:"omitempty,oneof=patient doctor"`
	PhoneNumber    string `json:"phoneNumber"`
	Specialization string `json:"specialization" binding:"max=100"`
	LicenseNumber  string `json:"licenseNumber" binding:"max=50"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// Session is returned on register and login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a patient or doctor account. Doctors need a
// specialization and a license number and start unapproved.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	role := models.RolePatient
	if in.Role != "" {
		role = models.Role(in.Role)
	}
	if role == models.RoleDoctor {
		if strings.TrimSpace(in.Specialization) == "" || strings.TrimSpace(in.LicenseNumber) == "" {
			return nil, apperr.Validation("specialization and licenseNumber are required for doctors")
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	u := &models.User{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       in.Email,
		Password:    hash,
		Role:        role,
		PhoneNumber: in.PhoneNumber,
		IsActive:    true,
		IsApproved:  models.DefaultApproval(role),
	}
	if role == models.RoleDoctor {
		u.Specialization = strings.TrimSpace(in.Specialization)
		u.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.ID.Hex()).Str("role", string(role)).Msg("user registered")

	return s.session(u)
}

// Login checks the credentials. Unknown emails and wrong passwords get the
// same answer.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	u, err := s.store.Users.GetByEmail(ctx, in.Email)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Check(in.Password, u.Password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("account is inactive")
	}

	now := s.now()
	u.LastLogin = &now
	if err := s.store.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *AuthService) session(u *models.User) (*Session, error) {
	token, err := s.tokens.Generate(u.ID, u.Role)
	if err != nil {
		return nil, apperr.Internal("generate token", err)
	}
	return &Session{Token: token, User: u}, nil
}

// Profile returns the actor's own user record.
func (s *AuthService) Profile(ctx context.Context, actor authz.Actor) (*models.User, error) {
	u, err := s.store.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionRead, authz.User(u.ID)); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies the actor's own profile changes. The email may also
// be changed here, subject to uniqueness.
func (s *AuthService) UpdateProfile(ctx context.Context, actor authz.Actor, body Patch) (*models.User, error) {
	allowed := append(authz.UserFields(actor.Role, actor.Role), "email")
	var p userPatch
	if err := decodePatch(body, allowed, &p); err != nil {
		return nil, err
	}
	u, err := s.store.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionUpdate, authz.User(u.ID)); err != nil {
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

func (s *AuthService) ChangePassword(ctx context.Context, actor authz.Actor, in ChangePasswordInput) error {
	if err := validate(&in); err != nil {
		return err
	}
	u, err := s.store.Users.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ActionUpdate, authz.User(u.ID)); err != nil {
		return err
	}
	if !s.hasher.Check(in.CurrentPassword, u.Password) {
		return apperr.Validation("current password is incorrect")
	}
	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	u.Password = hash
	return s.store.Users.Update(ctx, u)
}

// Seed creates an account unless the email is already registered. It
// reports whether the account was created.
func (s *AuthService) Seed(ctx context.Context, u *models.User, password string) (bool, error) {
	_, err := s.store.Users.GetByEmail(ctx, u.Email)
	if err == nil {
		return false, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return false, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, apperr.Internal("hash password", err)
	}
	u.Password = hash
	if err := s.store.Users.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
