package reservation

import (
	"context"
	"errors"
	"fmt"

	professionalRepo "reserva/database/repository/professional"
	tenantRepo "reserva/database/repository/tenant"
	"reserva/models"
)

// checkEligibility performs the read-only precondition checks for a reserve
// request and resolves the requested services. Any failure short-circuits
// the attempt before a lock is taken; nothing here has side effects.
func (e *DefaultEngine) checkEligibility(ctx context.Context, req models.ReserveRequest) ([]models.Service, error) {
	tenant, err := e.Tenants.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrNotFound) {
			return nil, newError(CodeTenantUnavailable, "tenant does not exist")
		}
		return nil, wrapError(CodeTransientFailure, "failed to load tenant", err)
	}
	if !tenant.CanReserve() {
		return nil, newError(CodeTenantUnavailable, "tenant is closed or its subscription is not in good standing")
	}

	// Walk-ins carry a free-text name and cannot appear on the block list.
	if req.ClientID != "" {
		blocked, err := e.Blocks.Exists(ctx, req.TenantID, req.ClientID)
		if err != nil {
			return nil, wrapError(CodeTransientFailure, "failed to check block list", err)
		}
		if blocked {
			return nil, newError(CodeClientBlocked, "client is blocked at this tenant")
		}
	}

	professional, err := e.Professionals.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, professionalRepo.ErrNotFound) {
			return nil, newError(CodeProfessionalUnavailable, "professional is not available")
		}
		return nil, wrapError(CodeTransientFailure, "failed to load professional", err)
	}
	if professional.TenantID != req.TenantID || !professional.Active {
		return nil, newError(CodeProfessionalUnavailable, "professional is not available")
	}

	services, err := e.Services.GetActiveByIDs(ctx, req.TenantID, req.ServiceIDs)
	if err != nil {
		return nil, wrapError(CodeTransientFailure, "failed to resolve services", err)
	}
	// Missing ids and inactive services fail uniformly: the caller's view of
	// the catalog is stale either way.
	if len(services) != len(req.ServiceIDs) {
		return nil, newError(CodeServiceUnavailable,
			fmt.Sprintf("%d of %d requested services are no longer available", len(req.ServiceIDs)-len(services), len(req.ServiceIDs)))
	}

	return services, nil
}
