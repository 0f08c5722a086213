package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
)

func TestCreateRequestValidateReportsAllFields(t *testing.T) {
	req := &CreateRequest{
		Price:    -5,
		Category: "vinyl",
	}

	err := req.Validate()
	require.Error(t, err)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"id", "name", "price", "colors", "category"}, ve.Fields,
		"every invalid field must be listed at once")
}

func TestCreateRequestValidateOK(t *testing.T) {
	req := &CreateRequest{
		ID:     "tee-new",
		Name:   "New Tee",
		Price:  24.50,
		Colors: []string{"black"},
	}
	assert.NoError(t, req.Validate())
}

func TestCreateRequestValidateRequiresColor(t *testing.T) {
	req := &CreateRequest{
		ID:    "tee-new",
		Name:  "New Tee",
		Price: 24.50,
	}

	err := req.Validate()
	require.Error(t, err)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"colors"}, ve.Fields)
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("hoodies"))
	assert.True(t, ValidCategory("tees"))
	assert.True(t, ValidCategory("accessories"))
	assert.False(t, ValidCategory("vinyl"))
	assert.False(t, ValidCategory(""))
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		decimal float64
		want    int64
	}{
		{89.99, 8999},
		{24.50, 2450},
		{0.99, 99},
		{0, 0},
		{19.995, 2000}, // rounds half away from zero
		{10.004, 1000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MinorUnits(tt.decimal), "decimal %v", tt.decimal)
	}
}

func TestPayloadRoundTripsPrice(t *testing.T) {
	p := Product{ID: "x", Name: "X", Price: 8999, Category: CategoryTees}
	payload := p.ToPayload()
	assert.InDelta(t, 89.99, payload.Price, 0.0001)
	assert.Equal(t, p.Price, MinorUnits(payload.Price))
}
