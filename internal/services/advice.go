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

type AdviceService struct {
	base
}

type CreateAdviceInput struct {
	PatientID        string                        `json:"patient" binding:"required,objectid"`
	Title            string                        `json:"title" binding:"required,max=200"`
	Content          string                        `json:"content" binding:"required,max=3000"`
	Type             string                        `json:"type" binding:"omitempty,oneof=medication lifestyle diet exercise followup prevention emergency general"`
	Priority         string                        `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Category         string                        `json:"category" binding:"omitempty,oneof=general cardiology dermatology endocrinology gastroenterology neurology orthopedics pediatrics psychiatry pulmonology urology gynecology other"`
	Recommendations  []models.Recommendation       `json:"recommendations" binding:"dive"`
	Medications      []models.PrescribedMedication `json:"medications" binding:"dive"`
	FollowUp         *models.FollowUp              `json:"followUp"`
	Warnings         []models.Warning              `json:"warnings" binding:"dive"`
	Tags             []string                      `json:"tags"`
	RelatedHealthLog string                        `json:"relatedHealthLog" binding:"omitempty,objectid"`
	RelatedQuestion  string                        `json:"relatedQuestion" binding:"omitempty,objectid"`
}

type AdviceQuery struct {
	Category string
	Type     string
	Unread   bool
}

type FeedbackInput struct {
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	Comment        string `json:"comment" binding:"max=1000"`
	Helpful        *bool  `json:"helpful"`
	FollowedAdvice *bool  `json:"followedAdvice"`
}

type advicePatch struct {
	Title           *string                        `json:"title" binding:"omitempty,max=200"`
	Content         *string                        `json:"content" binding:"omitempty,max=3000"`
	Type            *string                        `json:"type" binding:"omitempty,oneof=medication lifestyle diet exercise followup prevention emergency general"`
	Priority        *string                        `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Category        *string                        `json:"category" binding:"omitempty,oneof=general cardiology dermatology endocrinology gastroenterology neurology orthopedics pediatrics psychiatry pulmonology urology gynecology other"`
	Recommendations *[]models.Recommendation       `json:"recommendations" binding:"omitempty,dive"`
	Medications     *[]models.PrescribedMedication `json:"medications" binding:"omitempty,dive"`
	FollowUp        *models.FollowUp               `json:"followUp"`
	Warnings        *[]models.Warning              `json:"warnings" binding:"omitempty,dive"`
	Tags            *[]string                      `json:"tags"`
	IsActive        *bool                          `json:"isActive"`
}

func (p *advicePatch) apply(a *models.Advice) error {
	if blank(p.Title) || blank(p.Content) {
		return apperr.Validation("title and content cannot be empty")
	}
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		a.Content = strings.TrimSpace(*p.Content)
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Recommendations != nil {
		a.Recommendations = *p.Recommendations
	}
	if p.Medications != nil {
		a.Medications = *p.Medications
	}
	if p.FollowUp != nil {
		a.FollowUp = p.FollowUp
	}
	if p.Warnings != nil {
		a.Warnings = *p.Warnings
	}
	if p.Tags != nil {
		a.Tags = *p.Tags
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
	return nil
}

// Create issues advice from the acting doctor to a patient. The patient is
// told by SMS when notifications are enabled.
func (s *AdviceService) Create(ctx context.Context, actor authz.Actor, in CreateAdviceInput) (*AdviceView, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("title and content are required")
	}
	if err := authz.Authorize(actor, authz.ActionCreate, authz.NewAdvice()); err != nil {
		return nil, err
	}
	patientID, err := ParseID(in.PatientID, "patient")
	if err != nil {
		return nil, err
	}
	patient, err := s.store.Users.GetByID(ctx, patientID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, apperr.Validation("patient not found")
	}
	if err != nil {
		return nil, err
	}
	if patient.Role != models.RolePatient {
		return nil, apperr.Validation("advice can only be given to patients")
	}

	a := &models.Advice{
		DoctorID:        actor.ID,
		PatientID:       patient.ID,
		Title:           strings.TrimSpace(in.Title),
		Content:         strings.TrimSpace(in.Content),
		Type:            in.Type,
		Priority:        in.Priority,
		Category:        in.Category,
		Recommendations: in.Recommendations,
		Medications:     in.Medications,
		FollowUp:        in.FollowUp,
		Warnings:        in.Warnings,
		Tags:            in.Tags,
		IsActive:        true,
	}
	if a.Type == "" {
		a.Type = "general"
	}
	if a.Priority == "" {
		a.Priority = "medium"
	}
	if a.Category == "" {
		a.Category = "general"
	}
	if a.RelatedHealthLog, err = optionalID(in.RelatedHealthLog, "health log"); err != nil {
		return nil, err
	}
	if a.RelatedQuestion, err = optionalID(in.RelatedQuestion, "question"); err != nil {
		return nil, err
	}

	if err := s.store.Advice.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info().Str("advice_id", a.ID.Hex()).Str("user_id", actor.ID.Hex()).Msg("advice issued")

	var doctor *models.User
	if d, err := s.store.Users.GetByID(ctx, actor.ID); err == nil {
		doctor = d
	}
	s.notifier.AdviceIssued(patient, doctor, a)
	return s.populate.OneAdvice(ctx, a)
}

func optionalID(raw, what string) (*primitive.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := ParseID(raw, what)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// List scopes advice to the actor: patients see their active advice, doctors
// what they authored and admins everything.
func (s *AdviceService) List(ctx context.Context, actor authz.Actor, q AdviceQuery, p pagination.Params) ([]AdviceView, int64, error) {
	f := store.AdviceFilter{Category: q.Category, Type: q.Type, Unread: q.Unread}
	switch actor.Role {
	case models.RolePatient:
		if err := authz.RequireRole(actor, models.RolePatient); err != nil {
			return nil, 0, err
		}
		f.PatientID = actor.ID
		f.ActiveOnly = true
	case models.RoleDoctor:
		if err := authz.RequireRole(actor, models.RoleDoctor); err != nil {
			return nil, 0, err
		}
		f.DoctorID = actor.ID
	default:
		if err := authz.RequireRole(actor); err != nil {
			return nil, 0, err
		}
	}
	return s.list(ctx, f, p, true)
}

// DoctorList lists the advice authored by the acting doctor.
func (s *AdviceService) DoctorList(ctx context.Context, actor authz.Actor, q AdviceQuery, p pagination.Params) ([]AdviceView, int64, error) {
	if err := authz.RequireRole(actor, models.RoleDoctor); err != nil {
		return nil, 0, err
	}
	f := store.AdviceFilter{Category: q.Category, Type: q.Type}
	if actor.Is(models.RoleDoctor) {
		f.DoctorID = actor.ID
	}
	return s.list(ctx, f, p, true)
}

// ByCategory is the public advice library. Patient references are withheld.
func (s *AdviceService) ByCategory(ctx context.Context, category string, p pagination.Params) ([]AdviceView, int64, error) {
	if !models.OneOf(category, models.Categories) {
		return nil, 0, apperr.Validation("invalid category %q", category)
	}
	return s.list(ctx, store.AdviceFilter{Category: category, ActiveOnly: true}, p, false)
}

func (s *AdviceService) list(ctx context.Context, f store.AdviceFilter, p pagination.Params, withPatient bool) ([]AdviceView, int64, error) {
	if f.Type != "" && !models.OneOf(f.Type, models.AdviceTypes) {
		return nil, 0, apperr.Validation("invalid type %q", f.Type)
	}
	items, total, err := s.store.Advice.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.populate.Advice(ctx, items, withPatient)
	return views, total, err
}

func (s *AdviceService) load(ctx context.Context, actor authz.Actor, id primitive.ObjectID, action authz.Action) (*models.Advice, error) {
	a, err := s.store.Advice.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, action, authz.Advice(a)); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AdviceService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*AdviceView, error) {
	a, err := s.load(ctx, actor, id, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.populate.OneAdvice(ctx, a)
}

func (s *AdviceService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, body Patch) (*AdviceView, error) {
	var p advicePatch
	if err := decodeUpdate(actor, authz.KindAdvice, body, &p); err != nil {
		return nil, err
	}
	a, err := s.load(ctx, actor, id, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := p.apply(a); err != nil {
		return nil, err
	}
	if err := s.store.Advice.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.populate.OneAdvice(ctx, a)
}

// MarkRead flags the advice as read. Repeated calls keep the first readAt.
func (s *AdviceService) MarkRead(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*AdviceView, error) {
	a, err := s.load(ctx, actor, id, authz.ActionMarkRead)
	if err != nil {
		return nil, err
	}
	if !a.IsRead || a.ReadAt == nil {
		a.MarkRead(s.now())
		if err := s.store.Advice.Update(ctx, a); err != nil {
			return nil, err
		}
	}
	return s.populate.OneAdvice(ctx, a)
}

// Feedback stores the patient's rating of the advice, replacing any earlier one.
func (s *AdviceService) Feedback(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in FeedbackInput) (*AdviceView, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	a, err := s.load(ctx, actor, id, authz.ActionFeedback)
	if err != nil {
		return nil, err
	}
	a.PatientFeedback = &models.PatientFeedback{
		Rating:         in.Rating,
		Comment:        in.Comment,
		Helpful:        in.Helpful,
		FollowedAdvice: in.FollowedAdvice,
		FeedbackDate:   s.now(),
	}
	if err := s.store.Advice.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.populate.OneAdvice(ctx, a)
}

func (s *AdviceService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if _, err := s.load(ctx, actor, id, authz.ActionDelete); err != nil {
		return err
	}
	return s.store.Advice.Delete(ctx, id)
}
