package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOpenOrder(t *testing.T) {
	order := NewOpenOrder(7)

	assert.Equal(t, uint64(7), order.UserID)
	assert.Equal(t, StatusInitiated, order.Status)
	assert.NotNil(t, order.Open)
	assert.True(t, *order.Open)
	assert.Empty(t, order.Items)
	assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Second)
}

func TestOrder_Settle(t *testing.T) {
	now := time.Now()

	order := NewOpenOrder(1)
	assert.NoError(t, order.Settle(now))
	assert.Equal(t, StatusPayed, order.Status)
	assert.Nil(t, order.Open)
	assert.Equal(t, now, order.UpdatedAt)

	// PAYED is terminal
	assert.ErrorIs(t, order.Settle(now), ErrAlreadyPaid)
	assert.ErrorIs(t, order.Cancel(now), ErrAlreadyPaid)

	cancelled := NewOpenOrder(2)
	assert.NoError(t, cancelled.Cancel(now))
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.Open)
	assert.ErrorIs(t, cancelled.Settle(now), ErrOrderClosed)
	assert.ErrorIs(t, cancelled.Cancel(now), ErrOrderClosed)
}

func TestOrder_ItemForAndTotal(t *testing.T) {
	order := NewOpenOrder(1)
	order.Items = []OrderItem{
		{ID: 1, GameID: 10, Price: 1000, Quantity: 2},
		{ID: 2, GameID: 20, Price: 2500, Quantity: 1},
	}

	item := order.ItemFor(10)
	assert.NotNil(t, item)
	assert.Equal(t, uint64(1), item.ID)

	// returned pointer aliases the slice entry
	item.Quantity = 3
	assert.Equal(t, int64(3), order.Items[0].Quantity)

	assert.Nil(t, order.ItemFor(99))
	assert.Equal(t, int64(3*1000+2500), order.Total())
}
