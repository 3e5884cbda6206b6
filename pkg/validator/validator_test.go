package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    uuid.UUID        `validate:"uuid_required"`
	Name  string           `validate:"required"`
	Price decimal.Decimal  `validate:"gte=0"`
	Sale  *decimal.Decimal `validate:"omitempty,gte=0"`
}

func TestValidateStructPasses(t *testing.T) {
	sale := decimal.RequireFromString("9.99")
	errs := ValidateStruct(&sample{ID: uuid.New(), Name: "wig", Price: decimal.RequireFromString("19.99"), Sale: &sale})
	assert.Empty(t, errs)
}

func TestValidateStructReportsFailures(t *testing.T) {
	errs := ValidateStruct(&sample{Price: decimal.RequireFromString("-1")})
	require.Len(t, errs, 3)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	assert.Equal(t, "uuid_required", tags["sample.ID"])
	assert.Equal(t, "required", tags["sample.Name"])
	assert.Equal(t, "gte", tags["sample.Price"])
	assert.Equal(t, "Validation failed: Field 'sample.ID' failed on tag 'uuid_required'", Message(errs))
}

func TestMessageEmpty(t *testing.T) {
	assert.Equal(t, "", Message(nil))
}
