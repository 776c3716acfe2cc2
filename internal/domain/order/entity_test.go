package order

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/cart"
)

func TestNewFromCart(t *testing.T) {
	lines := []*cart.Line{
		{ID: 1, BookID: 10, Title: "A", Price: 100, Quantity: 2},
		{ID: 2, BookID: 11, Title: "B", Price: 50, Quantity: 1},
	}
	o := NewFromCart("ORD1", 7, "Alice", "1 Main St", lines)

	assert.Equal(t, int64(250), o.Total)
	assert.Equal(t, StatusPending, o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, uint(10), o.Items[0].BookID)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Shipped", "Delivered", "Cancelled"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), st)
	}
	_, err := ParseStatus("Paid")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrder_TransitionTo(t *testing.T) {
	tests := []struct {
		from, to    Status
		wantChanged bool
		wantErr     error
	}{
		{StatusPending, StatusShipped, true, nil},
		{StatusPending, StatusDelivered, true, nil},
		{StatusPending, StatusCancelled, true, nil},
		{StatusShipped, StatusDelivered, true, nil},
		{StatusShipped, StatusCancelled, true, nil},
		{StatusShipped, StatusPending, false, ErrInvalidStatusTransition},
		{StatusDelivered, StatusCancelled, false, ErrInvalidStatusTransition},
		{StatusCancelled, StatusPending, false, ErrInvalidStatusTransition},
		{StatusPending, StatusPending, false, nil},
		{StatusCancelled, StatusCancelled, false, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			o := &Order{Status: tt.from}
			changed, err := o.TransitionTo(tt.to)
			assert.Equal(t, tt.wantChanged, changed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, o.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, o.Status)
		})
	}
}

func TestGenerateOrderNo(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^ORD\d{10,}\d{6}$`), GenerateOrderNo())
}

func TestStatusChangedEvent(t *testing.T) {
	o := &Order{ID: 1, OrderNo: "ORD1", UserID: 2, Total: 300, Status: StatusShipped,
		Items: []Item{{Quantity: 2}, {Quantity: 1}}}
	e := StatusChangedEvent(o, StatusPending)

	assert.Equal(t, EventStatusChanged, e.Type)
	assert.Equal(t, StatusPending, e.OldStatus)
	assert.Equal(t, StatusShipped, e.Status)
	assert.Equal(t, 3, e.ItemCount)
}
