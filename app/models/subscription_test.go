package models

import "testing"

func TestSubscriptionIsActive(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: SubscriptionStatusActive, want: true},
		{status: SubscriptionStatusTrialing, want: false},
		{status: SubscriptionStatusPastDue, want: false},
		{status: SubscriptionStatusCanceled, want: false},
		{status: SubscriptionStatusUnpaid, want: false},
		{status: "", want: false},
	}

	for _, tt := range tests {
		sub := Subscription{ID: "sub_1", Status: tt.status}
		if got := sub.IsActive(); got != tt.want {
			t.Fatalf("IsActive() with status %q = %t, want %t", tt.status, got, tt.want)
		}
	}
}

func TestIsTerminalSubscriptionStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: SubscriptionStatusCanceled, want: true},
		{status: SubscriptionStatusIncompleteExpired, want: true},
		{status: "  Canceled ", want: true},
		{status: SubscriptionStatusActive, want: false},
		{status: SubscriptionStatusPastDue, want: false},
		{status: SubscriptionStatusPaused, want: false},
	}

	for _, tt := range tests {
		if got := IsTerminalSubscriptionStatus(tt.status); got != tt.want {
			t.Fatalf("IsTerminalSubscriptionStatus(%q) = %t, want %t", tt.status, got, tt.want)
		}
	}
}

func TestNormalizeSubscriptionStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Active", want: "active"},
		{in: "  PAST_DUE  ", want: "past_due"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeSubscriptionStatus(tt.in); got != tt.want {
			t.Fatalf("NormalizeSubscriptionStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUserHasStripeCustomer(t *testing.T) {
	u := User{Email: "jane@example.com"}
	if u.HasStripeCustomer() {
		t.Fatalf("expected no linked customer")
	}

	u.StripeCustomerID = "cus_1"
	if !u.HasStripeCustomer() {
		t.Fatalf("expected linked customer")
	}
}

func TestUserValidate(t *testing.T) {
	valid := User{Email: "jane@example.com", Status: STATUS_ACTIVE}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid user, got %v", err)
	}

	invalid := User{Email: "not-an-email", Status: STATUS_ACTIVE}
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected validation error for bad email")
	}
}
