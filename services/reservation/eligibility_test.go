package reservation

import (
	"context"
	"testing"
	"time"

	"reserva/models"
)

func validRequest() models.ReserveRequest {
	return models.ReserveRequest{
		TenantID:       "t1",
		ProfessionalID: "p1",
		ServiceIDs:     []string{"s45"},
		ClientID:       "c1",
		Start:          time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	}
}

func TestEligibilityFailures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(f *testFixture, req *models.ReserveRequest)
		wantCode string
	}{
		{
			name:     "unknown tenant",
			mutate:   func(f *testFixture, req *models.ReserveRequest) { req.TenantID = "nope" },
			wantCode: CodeTenantUnavailable,
		},
		{
			name: "closed tenant",
			mutate: func(f *testFixture, req *models.ReserveRequest) {
				tn := f.tenants.tenants["t1"]
				tn.Closed = true
				f.tenants.tenants["t1"] = tn
			},
			wantCode: CodeTenantUnavailable,
		},
		{
			name: "suspended subscription",
			mutate: func(f *testFixture, req *models.ReserveRequest) {
				tn := f.tenants.tenants["t1"]
				tn.SubscriptionStatus = models.SubscriptionSuspended
				f.tenants.tenants["t1"] = tn
			},
			wantCode: CodeTenantUnavailable,
		},
		{
			name: "canceled subscription",
			mutate: func(f *testFixture, req *models.ReserveRequest) {
				tn := f.tenants.tenants["t1"]
				tn.SubscriptionStatus = models.SubscriptionCanceled
				f.tenants.tenants["t1"] = tn
			},
			wantCode: CodeTenantUnavailable,
		},
		{
			name: "blocked client",
			mutate: func(f *testFixture, req *models.ReserveRequest) {
				f.blocks.blocked["t1/c1"] = true
			},
			wantCode: CodeClientBlocked,
		},
		{
			name:     "unknown professional",
			mutate:   func(f *testFixture, req *models.ReserveRequest) { req.ProfessionalID = "nope" },
			wantCode: CodeProfessionalUnavailable,
		},
		{
			name: "inactive professional",
			mutate: func(f *testFixture, req *models.ReserveRequest) {
				p := f.professionals.professionals["p1"]
				p.Active = false
				f.professionals.professionals["p1"] = p
			},
			wantCode: CodeProfessionalUnavailable,
		},
		{
			name: "professional owned by another tenant",
			mutate: func(f *testFixture, req *models.ReserveRequest) {
				p := f.professionals.professionals["p1"]
				p.TenantID = "t2"
				f.professionals.professionals["p1"] = p
			},
			wantCode: CodeProfessionalUnavailable,
		},
		{
			name:     "unknown service",
			mutate:   func(f *testFixture, req *models.ReserveRequest) { req.ServiceIDs = []string{"nope"} },
			wantCode: CodeServiceUnavailable,
		},
		{
			name: "one of two services inactive",
			mutate: func(f *testFixture, req *models.ReserveRequest) {
				svc := f.services.services["s30"]
				svc.Active = false
				f.services.services["s30"] = svc
				req.ServiceIDs = []string{"s45", "s30"}
			},
			wantCode: CodeServiceUnavailable,
		},
		{
			name: "service owned by another tenant",
			mutate: func(f *testFixture, req *models.ReserveRequest) {
				svc := f.services.services["s45"]
				svc.TenantID = "t2"
				f.services.services["s45"] = svc
			},
			wantCode: CodeServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFixture()
			req := validRequest()
			tt.mutate(f, &req)

			_, err := f.engine.Reserve(context.Background(), req)
			if failure := mustBeCode(err, tt.wantCode); failure != nil {
				t.Fatal(failure)
			}
			if n := len(f.reservations.all()); n != 0 {
				t.Fatalf("ineligible request must not create reservations, found %d rows", n)
			}
			if len(f.locks.held) != 0 {
				t.Fatal("ineligible request must not leave a lock behind")
			}
		})
	}
}

func TestWalkInSkipsBlockList(t *testing.T) {
	f := newTestFixture()
	// The block list keys on client ids; a walk-in has none to match.
	f.blocks.blocked["t1/Jane Doe"] = true

	req := validRequest()
	req.ClientID = ""
	req.ClientName = "Jane Doe"

	set, err := f.engine.Reserve(context.Background(), req)
	if err != nil {
		t.Fatalf("walk-in reserve failed: %v", err)
	}
	if set.Reservations[0].ClientName != "Jane Doe" {
		t.Errorf("walk-in name not carried onto the row: %+v", set.Reservations[0])
	}
}

func TestPastDueTenantMayStillReserve(t *testing.T) {
	f := newTestFixture()
	tn := f.tenants.tenants["t1"]
	tn.SubscriptionStatus = models.SubscriptionPastDue
	f.tenants.tenants["t1"] = tn

	if _, err := f.engine.Reserve(context.Background(), validRequest()); err != nil {
		t.Fatalf("past_due is a grace state, reserve should succeed: %v", err)
	}
}
