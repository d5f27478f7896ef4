package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Status Tests
// ============================================

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseStatus("lost")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusShipped))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusShipped.CanTransitionTo(StatusDelivered))
	assert.True(t, StatusShipped.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	assert.False(t, StatusPending.CanTransitionTo(StatusDelivered))
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusShipped.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, Status("lost").Terminal())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Delivered", StatusDelivered.Label())
	assert.Equal(t, "", Status("").Label())
}

// ============================================
// Decoding & Sorting Tests
// ============================================

func TestOrder_DecodeBackendJSON(t *testing.T) {
	raw := `{
		"id": 12,
		"user": "johnny01",
		"items": [{"product": {"id": 3, "name": "iPad", "price": 34900, "category": "ipad"}, "quantity": 2, "product_name": "iPad", "price": "34900.00"}],
		"total_amount": "69800.00",
		"created_at": "2024-05-01T10:15:30.123456Z",
		"shipping_status": "shipped"
	}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))

	assert.Equal(t, 12, o.ID)
	assert.Equal(t, StatusShipped, o.ShippingStatus)
	assert.True(t, decimal.NewFromInt(69800).Equal(o.TotalAmount))
	require.Len(t, o.Items, 1)
	assert.Equal(t, "iPad", o.Items[0].Name())
	assert.True(t, decimal.NewFromInt(69800).Equal(o.Items[0].Subtotal()))
	assert.Equal(t, 2024, o.CreatedAt.Year())
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []Order{
		{ID: 1, CreatedAt: base},
		{ID: 3, CreatedAt: base.Add(48 * time.Hour)},
		{ID: 2, CreatedAt: base.Add(24 * time.Hour)},
	}

	SortNewestFirst(orders)

	assert.Equal(t, []int{3, 2, 1}, []int{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestRows_MergesOrderCells(t *testing.T) {
	orders := []Order{
		{ID: 1, Items: []Item{{ProductName: "A"}, {ProductName: "B"}, {ProductName: "C"}}},
		{ID: 2},
		{ID: 3, Items: []Item{{ProductName: "D"}}},
	}

	rows := Rows(orders)

	require.Len(t, rows, 5)
	assert.True(t, rows[0].First)
	assert.Equal(t, 3, rows[0].Span)
	assert.False(t, rows[1].First)
	assert.False(t, rows[2].First)
	assert.Equal(t, 2, rows[3].Order.ID)
	assert.True(t, rows[3].First)
	assert.Equal(t, 1, rows[3].Span)
	assert.Equal(t, "D", rows[4].Item.Name())
}

// ============================================
// Progress Tests
// ============================================

func states(p Progress) []StageState {
	out := make([]StageState, len(p.Stages))
	for i, s := range p.Stages {
		out[i] = s.State
	}
	return out
}

func TestTrack(t *testing.T) {
	tests := []struct {
		status Status
		want   []StageState
	}{
		{StatusPending, []StageState{StageComplete, StageUpcoming, StageUpcoming}},
		{StatusShipped, []StageState{StageComplete, StageComplete, StageUpcoming}},
		{StatusDelivered, []StageState{StageComplete, StageComplete, StageComplete}},
		{StatusCancelled, []StageState{StageCancelled, StageCancelled, StageCancelled}},
		{Status("lost"), []StageState{StageUpcoming, StageUpcoming, StageUpcoming}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := Track(tt.status)
			assert.Equal(t, tt.want, states(p))
			assert.Equal(t, tt.status == StatusCancelled, p.Cancelled)
		})
	}
}

func TestTrack_CancelledSwapsFirstIcon(t *testing.T) {
	p := Track(StatusCancelled)
	assert.Equal(t, "times-circle", p.Stages[0].Icon)
	assert.Equal(t, "truck", p.Stages[1].Icon)

	assert.Equal(t, "clock", Track(StatusPending).Stages[0].Icon)
}
