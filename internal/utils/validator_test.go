// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type asinRequest struct {
	ASIN string `validate:"required,asin"`
}

func TestValidateASINTag(t *testing.T) {
	assert.NoError(t, ValidateStruct(asinRequest{ASIN: "B08N5WRWNW"}))
	assert.NoError(t, ValidateStruct(asinRequest{ASIN: "b08n5wrwnw"}), "lowercase input normalizes")

	assert.Error(t, ValidateStruct(asinRequest{ASIN: "B08N5"}))
	assert.Error(t, ValidateStruct(asinRequest{ASIN: "B08N5WRWNW1"}))
	assert.Error(t, ValidateStruct(asinRequest{ASIN: "B08N5WRWN!"}))
	assert.Error(t, ValidateStruct(asinRequest{}))
}

func TestValidateVarASIN(t *testing.T) {
	assert.NoError(t, ValidateVar("B08N5WRWNW", "required,asin"))
	assert.Error(t, ValidateVar("", "required,asin"))
	assert.Error(t, ValidateVar("not-an-asin", "required,asin"))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(asinRequest{ASIN: "bad"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "asin", errs[0].Field)
	assert.Equal(t, "asin", errs[0].Tag)
	assert.Equal(t, "ASIN must be exactly 10 letters or digits", errs[0].Message)
}
