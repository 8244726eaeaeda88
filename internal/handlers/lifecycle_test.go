package handlers

import (
	"testing"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

func TestIsAgentStatusRejectsUnknownValues(t *testing.T) {
	for _, status := range []string{"Pending", "Assigned", "delivered", "Lost", ""} {
		if isAgentStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
	for _, status := range []string{"Picked Up", "In Transit", "Delivered", "Failed"} {
		if !isAgentStatus(status) {
			t.Fatalf("expected %q to be accepted", status)
		}
	}
}

func TestValidateStatusTransitionForward(t *testing.T) {
	cases := []struct{ current, next string }{
		{models.StatusAssigned, models.StatusPickedUp},
		{models.StatusPickedUp, models.StatusInTransit},
		{models.StatusInTransit, models.StatusDelivered},
		{models.StatusInTransit, models.StatusFailed},
		{models.StatusAssigned, models.StatusDelivered},
	}
	for _, tc := range cases {
		if err := validateStatusTransition(tc.current, tc.next); err != nil {
			t.Fatalf("expected %s -> %s to be allowed, got %v", tc.current, tc.next, err)
		}
	}
}

func TestValidateStatusTransitionBackward(t *testing.T) {
	cases := []struct{ current, next string }{
		{models.StatusInTransit, models.StatusPickedUp},
		{models.StatusDelivered, models.StatusFailed},
		{models.StatusFailed, models.StatusDelivered},
		{models.StatusDelivered, models.StatusInTransit},
		{models.StatusPickedUp, models.StatusPickedUp},
	}
	for _, tc := range cases {
		if err := validateStatusTransition(tc.current, tc.next); err == nil {
			t.Fatalf("expected %s -> %s to be rejected", tc.current, tc.next)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !isTerminalStatus(models.StatusDelivered) || !isTerminalStatus(models.StatusFailed) {
		t.Fatal("Delivered and Failed must be terminal")
	}
	for _, status := range []string{models.StatusPending, models.StatusAssigned, models.StatusPickedUp, models.StatusInTransit} {
		if isTerminalStatus(status) {
			t.Fatalf("%s must not be terminal", status)
		}
	}
}
