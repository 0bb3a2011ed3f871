package authz

import (
	"encoding/json"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

var healthLogFields = []string{
	"date", "heartRate", "bloodPressure", "weight", "height", "temperature",
	"bloodSugar", "symptoms", "notes", "mood", "medications", "exercise", "sleep",
}

var questionFields = []string{"title", "content", "category", "priority", "symptoms", "duration", "tags"}

var adviceFields = []string{
	"title", "content", "type", "priority", "category",
	"recommendations", "medications", "followUp", "warnings", "tags",
}

// updatable is the per-resource, per-role set of fields an update may touch.
var updatable = map[Kind]map[models.Role][]string{
	KindAppointment: {
		models.RolePatient: {"appointmentDate", "timeSlot", "reason", "symptoms", "patientNotes"},
		models.RoleDoctor:  {"doctorNotes", "examination"},
		models.RoleAdmin:   {"appointmentDate", "timeSlot", "reason", "symptoms", "patientNotes", "doctorNotes", "type"},
	},
	KindHealthLog: {
		models.RolePatient: healthLogFields,
		models.RoleAdmin:   healthLogFields,
	},
	KindQuestion: {
		models.RolePatient: questionFields,
		models.RoleAdmin:   questionFields,
	},
	KindAdvice: {
		models.RoleDoctor: adviceFields,
		models.RoleAdmin:  append(append([]string{}, adviceFields...), "isActive"),
	},
}

var (
	userBaseFields    = []string{"fullName", "phoneNumber", "address", "dateOfBirth", "gender", "profilePicture"}
	userDoctorFields  = []string{"specialization", "experience", "workplace", "education", "certifications"}
	userPatientFields = []string{"bloodType", "allergies", "chronicConditions", "emergencyContact"}
)

// AllowedFields returns the fields role may change on a resource of kind.
func AllowedFields(kind Kind, role models.Role) []string {
	return updatable[kind][role]
}

// UserFields returns the profile fields an actor may change on a user whose
// role is target.
func UserFields(actor models.Role, target models.Role) []string {
	fields := append([]string{}, userBaseFields...)
	switch target {
	case models.RoleDoctor:
		fields = append(fields, userDoctorFields...)
	case models.RolePatient:
		fields = append(fields, userPatientFields...)
	}
	if actor == models.RoleAdmin {
		fields = append(fields, "isActive")
	}
	return fields
}

// FilterFields keeps only the allowed keys of body.
func FilterFields(body map[string]json.RawMessage, allowed []string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(body))
	for _, f := range allowed {
		if v, ok := body[f]; ok {
			out[f] = v
		}
	}
	return out
}
