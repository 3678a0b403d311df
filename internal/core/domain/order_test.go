package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Delivered", "Rejected"} {
		if _, err := ParseOrderStatus(s); err != nil {
			t.Errorf("ParseOrderStatus(%q) returned error: %v", s, err)
		}
	}
	for _, s := range []string{"", "pending", "Bogus", "Cancelled"} {
		if _, err := ParseOrderStatus(s); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseOrderStatus(%q): expected ErrInvalidStatus, got %v", s, err)
		}
	}
}

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		strict   bool
		want     error
	}{
		{StatusPending, StatusDelivered, true, nil},
		{StatusPending, StatusRejected, true, nil},
		{StatusPending, StatusPending, true, nil},
		{StatusDelivered, StatusDelivered, true, nil},
		{StatusDelivered, StatusPending, true, ErrInvalidTransition},
		{StatusRejected, StatusDelivered, true, ErrInvalidTransition},
		{StatusDelivered, StatusPending, false, nil},
		{StatusRejected, StatusDelivered, false, nil},
		{StatusPending, "Bogus", true, ErrInvalidStatus},
		{StatusPending, "Bogus", false, ErrInvalidStatus},
	}

	for _, tc := range cases {
		err := ValidateTransition(tc.from, tc.to, tc.strict)
		if tc.want == nil && err != nil {
			t.Errorf("%s -> %s (strict=%v): unexpected error %v", tc.from, tc.to, tc.strict, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s -> %s (strict=%v): expected %v, got %v", tc.from, tc.to, tc.strict, tc.want, err)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("Pending must not be terminal")
	}
	if !StatusDelivered.Terminal() || !StatusRejected.Terminal() {
		t.Error("Delivered and Rejected must be terminal")
	}
	if OrderStatus("Bogus").Terminal() {
		t.Error("unknown status must not report terminal")
	}
}

func TestNextTimestamp(t *testing.T) {
	prev := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := NextTimestamp(prev, prev); !got.After(prev) {
		t.Errorf("equal clock: expected a timestamp after %v, got %v", prev, got)
	}
	if got := NextTimestamp(prev, prev.Add(-time.Second)); !got.After(prev) {
		t.Errorf("clock behind: expected a timestamp after %v, got %v", prev, got)
	}
	later := prev.Add(time.Minute)
	if got := NextTimestamp(prev, later); !got.Equal(later) {
		t.Errorf("clock ahead: expected %v, got %v", later, got)
	}
}
