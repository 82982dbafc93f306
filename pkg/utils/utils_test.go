package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Insulin", SanitizeText("  <b>Insulin</b>\x00 "))
	assert.Equal(t, "Mumbai Central Hospital", SanitizeText("Mumbai Central Hospital"))
	assert.Empty(t, SanitizeText("<script></script>"))
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "DEV-001", SanitizeID(" dev-001 "))
	assert.Equal(t, "SHP_02", SanitizeID("shp_02;"))
	assert.Empty(t, SanitizeID("  "))
}

type sample struct {
	Name     string  `validate:"required,max=5"`
	Battery  float64 `validate:"min=0,max=100"`
	Severity string  `validate:"omitempty,oneof=warning critical"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(&sample{Name: "ok", Battery: 50}))

	err := ValidateStruct(&sample{Battery: 120, Severity: "info"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Battery must be at most 100")
	assert.Contains(t, err.Error(), "Severity must be one of [warning critical]")
}
