package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trendsQuery struct {
	Category  string `query:"category" validate:"required"`
	Timeframe int    `query:"timeframe" validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(trendsQuery{Category: "alignment", Timeframe: 24}))

	err := ValidateStruct(trendsQuery{Timeframe: -1})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"category":  "is required",
		"timeframe": "must be at least 0",
	}, verr.Fields)
	assert.Equal(t, "validation failed: category is required; timeframe must be at least 0", err.Error())
}

func TestValidateVar_Dive(t *testing.T) {
	assert.NoError(t, ValidateVar("categories", []string{"alignment"}, "dive,required"))
	assert.NoError(t, ValidateVar("categories", []string{}, "dive,required"))

	err := ValidateVar("categories", []string{"alignment", ""}, "dive,required")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["categories[1]"])
}

func TestValidateOrError(t *testing.T) {
	w := httptest.NewRecorder()

	ok := ValidateOrError(w, trendsQuery{})

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "is required", resp.Details["category"])
}

func TestValidateVarOrError_Valid(t *testing.T) {
	w := httptest.NewRecorder()

	assert.True(t, ValidateVarOrError(w, "categories", []string{"a"}, "dive,required"))
	assert.Equal(t, http.StatusOK, w.Code)
}
