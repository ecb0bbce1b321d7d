package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusShipped},
		{StatusConfirmed, StatusCancelled},
		{StatusShipped, StatusDelivered},
		{StatusDelivered, StatusReturnRequested},
		{StatusReturnRequested, StatusReturned},
		{StatusReturnRequested, StatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}

	denied := [][2]Status{
		{StatusPending, StatusDelivered},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusReturned, StatusDelivered},
		{StatusShipped, StatusPending},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(StatusPending))
	assert.False(t, Valid(Status("PAID")))
}
