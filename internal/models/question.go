package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "pending"
	QuestionAnswered QuestionStatus = "answered"
	QuestionClosed   QuestionStatus = "closed"
)

// Categories shared by questions and advice.
var Categories = []string{
	"general", "cardiology", "dermatology", "endocrinology",
	"gastroenterology", "neurology", "orthopedics", "pediatrics",
	"psychiatry", "pulmonology", "urology", "gynecology", "other",
}

var Priorities = []string{"low", "medium", "high", "urgent"}

type Answer struct {
	Content          string     `bson:"content" json:"content"`
	AnsweredAt       time.Time  `bson:"answeredAt" json:"answeredAt"`
	Recommendations  []string   `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	FollowUpRequired bool       `bson:"followUpRequired" json:"followUpRequired"`
	FollowUpDate     *time.Time `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`
}

type Question struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PatientID primitive.ObjectID  `bson:"patient" json:"patient"`
	DoctorID  *primitive.ObjectID `bson:"doctor,omitempty" json:"doctor,omitempty"`
	Title     string              `bson:"title" json:"title"`
	Content   string              `bson:"content" json:"content"`
	Category  string              `bson:"category" json:"category"`
	Priority  string              `bson:"priority" json:"priority"`
	Status    QuestionStatus      `bson:"status" json:"status"`
	Symptoms  []string            `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	Duration  string              `bson:"duration,omitempty" json:"duration,omitempty"`
	Tags      []string            `bson:"tags,omitempty" json:"tags,omitempty"`
	Answer    *Answer             `bson:"answer,omitempty" json:"answer,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// AssignedDoctor returns the doctor id, or the zero id for an open question.
func (q *Question) AssignedDoctor() primitive.ObjectID {
	if q.DoctorID == nil {
		return primitive.NilObjectID
	}
	return *q.DoctorID
}
