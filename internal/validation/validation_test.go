package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sample struct {
	Title  string `json:"title" binding:"required,max=5"`
	Start  string `json:"start" binding:"omitempty,hhmm"`
	Doctor string `json:"doctor" binding:"omitempty,objectid"`
}

func TestStructUsesJSONNames(t *testing.T) {
	err := Struct(&sample{})
	require.Error(t, err)
	assert.Equal(t, "title is required", Describe(err))
}

func TestCustomValidators(t *testing.T) {
	assert.NoError(t, Struct(&sample{Title: "ok", Start: "09:30", Doctor: primitive.NewObjectID().Hex()}))

	err := Struct(&sample{Title: "ok", Start: "9:3"})
	require.Error(t, err)
	assert.Contains(t, Describe(err), "HH:MM")

	err = Struct(&sample{Title: "ok", Doctor: "xyz"})
	require.Error(t, err)
	assert.Contains(t, Describe(err), "doctor must be a valid id")
}

func TestMaxMessage(t *testing.T) {
	err := Struct(&sample{Title: "toolong"})
	require.Error(t, err)
	assert.Equal(t, "title must be at most 5", Describe(err))
}
