package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HeartRate struct {
	Value  float64 `bson:"value" json:"value" binding:"min=30,max=250"`
	Unit   string  `bson:"unit" json:"unit"`
	Status string  `bson:"status" json:"status"`
}

type BloodPressure struct {
	Systolic  float64 `bson:"systolic" json:"systolic" binding:"min=50,max=300"`
	Diastolic float64 `bson:"diastolic" json:"diastolic" binding:"min=30,max=200"`
	Unit      string  `bson:"unit" json:"unit"`
	Status    string  `bson:"status" json:"status"`
}

type Measurement struct {
	Value float64 `bson:"value" json:"value" binding:"gt=0"`
	Unit  string  `bson:"unit" json:"unit"`
}

type Temperature struct {
	Value  float64 `bson:"value" json:"value" binding:"min=30,max=50"`
	Unit   string  `bson:"unit" json:"unit"`
	Status string  `bson:"status" json:"status"`
}

type BloodSugar struct {
	Value           float64 `bson:"value" json:"value" binding:"min=20,max=600"`
	Unit            string  `bson:"unit" json:"unit"`
	MeasurementType string  `bson:"measurementType" json:"measurementType" binding:"omitempty,oneof=fasting postprandial random"`
}

type MedicationIntake struct {
	Name      string     `bson:"name" json:"name" binding:"required"`
	Dosage    string     `bson:"dosage,omitempty" json:"dosage,omitempty"`
	Frequency string     `bson:"frequency,omitempty" json:"frequency,omitempty"`
	StartDate *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
}

type Exercise struct {
	Type      string `bson:"type,omitempty" json:"type,omitempty"`
	Duration  int    `bson:"duration,omitempty" json:"duration,omitempty"`
	Intensity string `bson:"intensity,omitempty" json:"intensity,omitempty" binding:"omitempty,oneof=low moderate high"`
}

type Sleep struct {
	Duration float64 `bson:"duration,omitempty" json:"duration,omitempty"`
	Quality  string  `bson:"quality,omitempty" json:"quality,omitempty" binding:"omitempty,oneof=excellent good fair poor"`
}

type HealthLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID     primitive.ObjectID `bson:"patient" json:"patient"`
	Date          time.Time          `bson:"date" json:"date"`
	HeartRate     *HeartRate         `bson:"heartRate,omitempty" json:"heartRate,omitempty"`
	BloodPressure *BloodPressure     `bson:"bloodPressure,omitempty" json:"bloodPressure,omitempty"`
	Weight        *Measurement       `bson:"weight,omitempty" json:"weight,omitempty"`
	Height        *Measurement       `bson:"height,omitempty" json:"height,omitempty"`
	Temperature   *Temperature       `bson:"temperature,omitempty" json:"temperature,omitempty"`
	BloodSugar    *BloodSugar        `bson:"bloodSugar,omitempty" json:"bloodSugar,omitempty"`
	BMI           *float64           `bson:"bmi,omitempty" json:"bmi,omitempty"`
	Symptoms      []string           `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Mood          string             `bson:"mood,omitempty" json:"mood,omitempty"`
	Medications   []MedicationIntake `bson:"medications,omitempty" json:"medications,omitempty"`
	Exercise      *Exercise          `bson:"exercise,omitempty" json:"exercise,omitempty"`
	Sleep         *Sleep             `bson:"sleep,omitempty" json:"sleep,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Normalize fills in default units, derives the vital sign statuses and
// recomputes the BMI. It is run on every write.
func (h *HealthLog) Normalize() {
	if h.HeartRate != nil {
		h.HeartRate.Unit = orDefault(h.HeartRate.Unit, "bpm")
		switch {
		case h.HeartRate.Value < 60:
			h.HeartRate.Status = "low"
		case h.HeartRate.Value > 100:
			h.HeartRate.Status = "high"
		default:
			h.HeartRate.Status = "normal"
		}
	}
	if bp := h.BloodPressure; bp != nil {
		bp.Unit = orDefault(bp.Unit, "mmHg")
		switch {
		case bp.Systolic >= 140 || bp.Diastolic >= 90:
			bp.Status = "high"
		case bp.Systolic < 90 || bp.Diastolic < 60:
			bp.Status = "low"
		default:
			bp.Status = "normal"
		}
	}
	if h.Weight != nil {
		h.Weight.Unit = orDefault(h.Weight.Unit, "kg")
	}
	if h.Height != nil {
		h.Height.Unit = orDefault(h.Height.Unit, "cm")
	}
	if t := h.Temperature; t != nil {
		t.Unit = orDefault(t.Unit, "°C")
		switch {
		case t.Value >= 37.5:
			t.Status = "fever"
		case t.Value < 35:
			t.Status = "hypothermia"
		default:
			t.Status = "normal"
		}
	}
	if s := h.BloodSugar; s != nil {
		s.Unit = orDefault(s.Unit, "mg/dL")
		s.MeasurementType = orDefault(s.MeasurementType, "random")
	}

	h.BMI = nil
	if h.Weight != nil && h.Height != nil && h.Height.Value > 0 {
		m := h.Height.Value / 100
		bmi := math.Round(h.Weight.Value/(m*m)*10) / 10
		h.BMI = &bmi
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
