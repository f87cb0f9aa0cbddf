package enums

import "testing"

func TestOrderStatusForwardPath(t *testing.T) {
	path := []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered}
	for i := 0; i < len(path)-1; i++ {
		if !path[i].CanTransitionTo(path[i+1]) {
			t.Fatalf("%s -> %s should be allowed", path[i], path[i+1])
		}
	}
}

func TestOrderStatusNoBackwardJumps(t *testing.T) {
	if OrderStatusShipped.CanTransitionTo(OrderStatusPending) {
		t.Fatal("shipped -> pending must be rejected")
	}
	if OrderStatusPending.CanTransitionTo(OrderStatusDelivered) {
		t.Fatal("pending -> delivered skips the pipeline and must be rejected")
	}
}

func TestCancelledReachableFromNonTerminal(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped} {
		if !status.CanTransitionTo(OrderStatusCancelled) {
			t.Fatalf("%s -> cancelled should be allowed", status)
		}
	}
	if OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled) {
		t.Fatal("delivered is terminal")
	}
	if OrderStatusCancelled.CanTransitionTo(OrderStatusPending) {
		t.Fatal("cancelled is terminal")
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	if !PaymentStatusPending.CanTransitionTo(PaymentStatusProcessing) {
		t.Fatal("pending -> processing should be allowed")
	}
	if !PaymentStatusPaid.CanTransitionTo(PaymentStatusRefunded) {
		t.Fatal("paid -> refunded should be allowed")
	}
	if PaymentStatusRefunded.CanTransitionTo(PaymentStatusPaid) {
		t.Fatal("refunded is terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, err := ParseOrderStatus("shipped"); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := ParseOrderStatus("in_orbit"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
