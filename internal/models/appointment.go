package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

var AppointmentTypes = []string{"consultation", "followup", "checkup", "emergency", "telemedicine"}

const DefaultSlotMinutes = 30

type TimeSlot struct {
	StartTime string `bson:"startTime" json:"startTime" binding:"required,hhmm"`
	EndTime   string `bson:"endTime" json:"endTime" binding:"required,hhmm"`
	Duration  int    `bson:"duration" json:"duration"`
}

// Validate checks that the slot starts before it ends and fills in the
// duration when it was not given.
func (t *TimeSlot) Validate() error {
	start, err := time.Parse("15:04", t.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q", t.StartTime)
	}
	end, err := time.Parse("15:04", t.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q", t.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("start time must be before end time")
	}
	if t.Duration <= 0 {
		t.Duration = int(end.Sub(start).Minutes())
	}
	return nil
}

type ContactInfo struct {
	Phone            string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email            string `bson:"email,omitempty" json:"email,omitempty"`
	PreferredContact string `bson:"preferredContact,omitempty" json:"preferredContact,omitempty" binding:"omitempty,oneof=phone email sms"`
}

type PrescriptionItem struct {
	Medication string `bson:"medication,omitempty" json:"medication,omitempty"`
	Dosage     string `bson:"dosage,omitempty" json:"dosage,omitempty"`
	Frequency  string `bson:"frequency,omitempty" json:"frequency,omitempty"`
	Duration   string `bson:"duration,omitempty" json:"duration,omitempty"`
}

type Examination struct {
	Diagnosis       string             `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	Treatment       string             `bson:"treatment,omitempty" json:"treatment,omitempty"`
	Prescription    []PrescriptionItem `bson:"prescription,omitempty" json:"prescription,omitempty"`
	Recommendations []string           `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	NextAppointment *time.Time         `bson:"nextAppointment,omitempty" json:"nextAppointment,omitempty"`
}

type Cancellation struct {
	CancelledBy Role      `bson:"cancelledBy" json:"cancelledBy"`
	Reason      string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CancelledAt time.Time `bson:"cancelledAt" json:"cancelledAt"`
}

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID       primitive.ObjectID `bson:"patient" json:"patient"`
	DoctorID        primitive.ObjectID `bson:"doctor" json:"doctor"`
	AppointmentDate time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	TimeSlot        TimeSlot           `bson:"timeSlot" json:"timeSlot"`
	Type            string             `bson:"type" json:"type"`
	Status          AppointmentStatus  `bson:"status" json:"status"`
	Reason          string             `bson:"reason" json:"reason"`
	Symptoms        []string           `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	ContactInfo     *ContactInfo       `bson:"contactInfo,omitempty" json:"contactInfo,omitempty"`
	PatientNotes    string             `bson:"patientNotes,omitempty" json:"patientNotes,omitempty"`
	DoctorNotes     string             `bson:"doctorNotes,omitempty" json:"doctorNotes,omitempty"`
	Examination     *Examination       `bson:"examination,omitempty" json:"examination,omitempty"`
	Cancellation    *Cancellation      `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
