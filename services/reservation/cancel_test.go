package reservation

import (
	"context"
	"testing"
	"time"

	"reserva/models"
)

func seedSet(t *testing.T, f *testFixture) *models.ReservationSet {
	t.Helper()
	set, err := f.engine.Reserve(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("seed reserve failed: %v", err)
	}
	return set
}

func setStatuses(f *testFixture, setID string) []string {
	var out []string
	for _, r := range f.reservations.all() {
		if r.SetID == setID {
			out = append(out, r.Status)
		}
	}
	return out
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newTestFixture()
	set := seedSet(t, f)

	if err := f.engine.Cancel(context.Background(), "t1", set.SetID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	for _, status := range setStatuses(f, set.SetID) {
		if status != models.StatusCanceled {
			t.Fatalf("row left in status %s after cancel", status)
		}
	}

	// A second cancel is a no-op, not an error.
	if err := f.engine.Cancel(context.Background(), "t1", set.SetID); err != nil {
		t.Fatalf("repeated cancel must be a no-op: %v", err)
	}
}

func TestCancelUnknownSet(t *testing.T) {
	f := newTestFixture()
	err := f.engine.Cancel(context.Background(), "t1", "no-such-set")
	if failure := mustBeCode(err, CodeInternalError); failure != nil {
		t.Fatal(failure)
	}
}

func TestCancelIsTenantScoped(t *testing.T) {
	f := newTestFixture()
	set := seedSet(t, f)

	err := f.engine.Cancel(context.Background(), "t2", set.SetID)
	if failure := mustBeCode(err, CodeInternalError); failure != nil {
		t.Fatal(failure)
	}
	for _, status := range setStatuses(f, set.SetID) {
		if status != models.StatusConfirmed {
			t.Fatal("a foreign tenant must not be able to cancel the set")
		}
	}
}

func TestCancellationRequestFlow(t *testing.T) {
	f := newTestFixture()
	set := seedSet(t, f)

	if err := f.engine.RequestCancellation(context.Background(), "t1", set.SetID); err != nil {
		t.Fatalf("request cancellation failed: %v", err)
	}
	for _, status := range setStatuses(f, set.SetID) {
		if status != models.StatusAwaitingCancellation {
			t.Fatalf("row in status %s, want AWAITING_CANCELLATION", status)
		}
	}

	// The slot stays occupied while the request is pending.
	competing := validRequest()
	competing.ClientID = "c2"
	_, err := f.engine.Reserve(context.Background(), competing)
	if failure := mustBeCode(err, CodeSlotConflict); failure != nil {
		t.Fatal(failure)
	}

	// A second request against a non-CONFIRMED set fails.
	if err := f.engine.RequestCancellation(context.Background(), "t1", set.SetID); err == nil {
		t.Fatal("repeated cancellation request should fail")
	}
}

func TestResolveCancellationApproved(t *testing.T) {
	f := newTestFixture()
	set := seedSet(t, f)

	if err := f.engine.RequestCancellation(context.Background(), "t1", set.SetID); err != nil {
		t.Fatalf("request cancellation failed: %v", err)
	}
	if err := f.engine.ResolveCancellation(context.Background(), "t1", set.SetID, true); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	for _, status := range setStatuses(f, set.SetID) {
		if status != models.StatusCanceled {
			t.Fatalf("approved resolution left status %s", status)
		}
	}

	// The freed slot is reservable again.
	retry := validRequest()
	retry.ClientID = "c2"
	if _, err := f.engine.Reserve(context.Background(), retry); err != nil {
		t.Fatalf("slot should be free after approved cancellation: %v", err)
	}
}

func TestResolveCancellationDeclined(t *testing.T) {
	f := newTestFixture()
	set := seedSet(t, f)

	if err := f.engine.RequestCancellation(context.Background(), "t1", set.SetID); err != nil {
		t.Fatalf("request cancellation failed: %v", err)
	}
	if err := f.engine.ResolveCancellation(context.Background(), "t1", set.SetID, false); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	for _, status := range setStatuses(f, set.SetID) {
		if status != models.StatusConfirmed {
			t.Fatalf("declined resolution left status %s, want CONFIRMED", status)
		}
	}
}

func TestResolveWithoutPendingRequest(t *testing.T) {
	f := newTestFixture()
	set := seedSet(t, f)

	err := f.engine.ResolveCancellation(context.Background(), "t1", set.SetID, true)
	if failure := mustBeCode(err, CodeInternalError); failure != nil {
		t.Fatal(failure)
	}
}

func TestCompleteSet(t *testing.T) {
	f := newTestFixture()

	past := validRequest()
	past.Start = time.Now().UTC().Add(-2 * time.Hour)
	set, err := f.engine.Reserve(context.Background(), past)
	if err != nil {
		t.Fatalf("seed reserve failed: %v", err)
	}

	if err := f.engine.CompleteSet(context.Background(), "t1", set.SetID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	for _, status := range setStatuses(f, set.SetID) {
		if status != models.StatusCompleted {
			t.Fatalf("row in status %s, want COMPLETED", status)
		}
	}
}

func TestCompleteSetRefusesFutureEnd(t *testing.T) {
	f := newTestFixture()

	future := validRequest()
	future.Start = time.Now().UTC().Add(2 * time.Hour)
	set, err := f.engine.Reserve(context.Background(), future)
	if err != nil {
		t.Fatalf("seed reserve failed: %v", err)
	}

	err = f.engine.CompleteSet(context.Background(), "t1", set.SetID)
	if failure := mustBeCode(err, CodeInternalError); failure != nil {
		t.Fatal(failure)
	}
	for _, status := range setStatuses(f, set.SetID) {
		if status != models.StatusConfirmed {
			t.Fatalf("premature completion changed status to %s", status)
		}
	}
}

func TestCanceledSetIsNotCompletable(t *testing.T) {
	f := newTestFixture()

	past := validRequest()
	past.Start = time.Now().UTC().Add(-2 * time.Hour)
	set, err := f.engine.Reserve(context.Background(), past)
	if err != nil {
		t.Fatalf("seed reserve failed: %v", err)
	}
	if err := f.engine.Cancel(context.Background(), "t1", set.SetID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// CompleteSet only moves CONFIRMED rows; a canceled set stays canceled.
	if err := f.engine.CompleteSet(context.Background(), "t1", set.SetID); err != nil {
		t.Fatalf("completing a canceled set should be a no-op: %v", err)
	}
	for _, status := range setStatuses(f, set.SetID) {
		if status != models.StatusCanceled {
			t.Fatalf("completion resurrected a canceled row into %s", status)
		}
	}
}
