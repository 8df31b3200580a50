package enums

import "testing"

func TestOrderStatusIndexOrdering(t *testing.T) {
	t.Parallel()

	sequence := []OrderStatus{
		OrderStatusPending,
		OrderStatusAccepted,
		OrderStatusPrepared,
		OrderStatusHandedToDelivery,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
	}
	for i, status := range sequence {
		if status.Index() != i {
			t.Fatalf("expected %s at index %d, got %d", status, i, status.Index())
		}
	}
	if OrderStatusCancelled.Index() != -1 {
		t.Fatalf("cancelled has no sequence index, got %d", OrderStatusCancelled.Index())
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	t.Parallel()

	if !OrderStatusDelivered.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("delivered and cancelled are terminal")
	}
	if OrderStatusPending.IsTerminal() {
		t.Fatal("pending is not terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	if got, err := ParseOrderStatus("out_for_delivery"); err != nil || got != OrderStatusOutForDelivery {
		t.Fatalf("unexpected parse result: %v %v", got, err)
	}
	if _, err := ParseOrderStatus("teleported"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseMenuChangeKind(t *testing.T) {
	t.Parallel()

	if got, err := ParseMenuChangeKind("availability_changed"); err != nil || got != MenuChangeAvailabilityChanged {
		t.Fatalf("unexpected parse result: %v %v", got, err)
	}
	if _, err := ParseMenuChangeKind("renamed"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
