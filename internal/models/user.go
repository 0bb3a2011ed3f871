package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmergencyContact struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Relationship string `bson:"relationship,omitempty" json:"relationship,omitempty"`
	PhoneNumber  string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName       string             `bson:"fullName" json:"fullName"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"` // Hide from JSON responses
	Role           Role               `bson:"role" json:"role"`
	PhoneNumber    string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	DateOfBirth    *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender         string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`

	// Doctor profile
	Specialization string   `bson:"specialization,omitempty" json:"specialization,omitempty"`
	LicenseNumber  string   `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	Experience     int      `bson:"experience,omitempty" json:"experience,omitempty"`
	Workplace      string   `bson:"workplace,omitempty" json:"workplace,omitempty"`
	Education      string   `bson:"education,omitempty" json:"education,omitempty"`
	Certifications []string `bson:"certifications,omitempty" json:"certifications,omitempty"`

	// Patient profile
	BloodType         string            `bson:"bloodType,omitempty" json:"bloodType,omitempty"`
	Allergies         []string          `bson:"allergies,omitempty" json:"allergies,omitempty"`
	ChronicConditions []string          `bson:"chronicConditions,omitempty" json:"chronicConditions,omitempty"`
	EmergencyContact  *EmergencyContact `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`

	IsActive   bool       `bson:"isActive" json:"isActive"`
	IsApproved bool       `bson:"isApproved" json:"isApproved"`
	LastLogin  *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultApproval is the approval state a freshly registered account of the
// given role starts with. Doctors wait for an admin.
func DefaultApproval(r Role) bool {
	return r != RoleDoctor
}

// UserSummary is the slice of a user embedded in other resources' responses.
type UserSummary struct {
	ID             primitive.ObjectID `json:"id"`
	FullName       string             `json:"fullName"`
	Email          string             `json:"email,omitempty"`
	Role           Role               `json:"role,omitempty"`
	Specialization string             `json:"specialization,omitempty"`
}

// Summary returns the public-facing summary of u.
func (u *User) Summary(withEmail bool) *UserSummary {
	if u == nil {
		return nil
	}
	s := &UserSummary{
		ID:             u.ID,
		FullName:       u.FullName,
		Role:           u.Role,
		Specialization: u.Specialization,
	}
	if withEmail {
		s.Email = u.Email
	}
	return s
}
