package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{ProductID: "a", Qty: 2, PriceVND: 150_000},
		{ProductID: "b", Qty: 1, PriceVND: 899_000},
	}
	assert.Equal(t, int64(1_199_000), Subtotal(lines))
	assert.Equal(t, int64(0), Subtotal(nil))
}
