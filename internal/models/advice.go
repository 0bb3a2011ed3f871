package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var AdviceTypes = []string{
	"medication", "lifestyle", "diet", "exercise",
	"followup", "prevention", "emergency", "general",
}

type Recommendation struct {
	Title       string `bson:"title" json:"title" binding:"required"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Frequency   string `bson:"frequency,omitempty" json:"frequency,omitempty"`
	Duration    string `bson:"duration,omitempty" json:"duration,omitempty"`
	Important   bool   `bson:"important" json:"important"`
}

type PrescribedMedication struct {
	Name              string   `bson:"name" json:"name" binding:"required"`
	Dosage            string   `bson:"dosage" json:"dosage" binding:"required"`
	Frequency         string   `bson:"frequency" json:"frequency" binding:"required"`
	Duration          string   `bson:"duration,omitempty" json:"duration,omitempty"`
	Instructions      string   `bson:"instructions,omitempty" json:"instructions,omitempty"`
	SideEffects       []string `bson:"sideEffects,omitempty" json:"sideEffects,omitempty"`
	Contraindications []string `bson:"contraindications,omitempty" json:"contraindications,omitempty"`
}

type SpecialistReferral struct {
	Required       bool   `bson:"required" json:"required"`
	Specialization string `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Reason         string `bson:"reason,omitempty" json:"reason,omitempty"`
}

type FollowUp struct {
	Required           bool                `bson:"required" json:"required"`
	SuggestedDate      *time.Time          `bson:"suggestedDate,omitempty" json:"suggestedDate,omitempty"`
	Reason             string              `bson:"reason,omitempty" json:"reason,omitempty"`
	SpecialistReferral *SpecialistReferral `bson:"specialistReferral,omitempty" json:"specialistReferral,omitempty"`
}

type Warning struct {
	Type     string `bson:"type,omitempty" json:"type,omitempty" binding:"omitempty,oneof=allergy interaction contraindication side_effect"`
	Message  string `bson:"message" json:"message" binding:"required"`
	Severity string `bson:"severity,omitempty" json:"severity,omitempty" binding:"omitempty,oneof=low medium high"`
}

type PatientFeedback struct {
	Rating         int       `bson:"rating" json:"rating"`
	Comment        string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Helpful        *bool     `bson:"helpful,omitempty" json:"helpful,omitempty"`
	FollowedAdvice *bool     `bson:"followedAdvice,omitempty" json:"followedAdvice,omitempty"`
	FeedbackDate   time.Time `bson:"feedbackDate" json:"feedbackDate"`
}

type Advice struct {
	ID               primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	DoctorID         primitive.ObjectID     `bson:"doctor" json:"doctor"`
	PatientID        primitive.ObjectID     `bson:"patient" json:"patient"`
	Title            string                 `bson:"title" json:"title"`
	Content          string                 `bson:"content" json:"content"`
	Type             string                 `bson:"type" json:"type"`
	Priority         string                 `bson:"priority" json:"priority"`
	Category         string                 `bson:"category" json:"category"`
	Recommendations  []Recommendation       `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	Medications      []PrescribedMedication `bson:"medications,omitempty" json:"medications,omitempty"`
	FollowUp         *FollowUp              `bson:"followUp,omitempty" json:"followUp,omitempty"`
	Warnings         []Warning              `bson:"warnings,omitempty" json:"warnings,omitempty"`
	Tags             []string               `bson:"tags,omitempty" json:"tags,omitempty"`
	RelatedHealthLog *primitive.ObjectID    `bson:"relatedHealthLog,omitempty" json:"relatedHealthLog,omitempty"`
	RelatedQuestion  *primitive.ObjectID    `bson:"relatedQuestion,omitempty" json:"relatedQuestion,omitempty"`
	IsRead           bool                   `bson:"isRead" json:"isRead"`
	ReadAt           *time.Time             `bson:"readAt,omitempty" json:"readAt,omitempty"`
	IsActive         bool                   `bson:"isActive" json:"isActive"`
	PatientFeedback  *PatientFeedback       `bson:"patientFeedback,omitempty" json:"patientFeedback,omitempty"`
	CreatedAt        time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// MarkRead flags the advice as read. The first read time is kept.
func (a *Advice) MarkRead(now time.Time) {
	if a.IsRead && a.ReadAt != nil {
		return
	}
	a.IsRead = true
	a.ReadAt = &now
}
