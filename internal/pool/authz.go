package pool

import (
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"
)

// Role gate. Every mutating operation runs one of these checks before it
// touches the store, regardless of what the HTTP layer already filtered.
// Each check switches exhaustively over the three roles.

// CanManageSlate reports whether the actor may edit matches or settings.
func CanManageSlate(actor *models.User) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleBookie, models.RoleClient:
		return fmt.Errorf("%w: %s cannot edit matches or settings", store.ErrUnauthorized, actor.Role)
	default:
		return fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

// CanAdjustBalance reports whether the actor may manually change the
// target's balance. Bookies reach only their own clients.
func CanAdjustBalance(actor, target *models.User) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleBookie:
		if target.ParentId == actor.Id {
			return nil
		}
		return fmt.Errorf("%w: user %s is not a client of bookie %s", store.ErrUnauthorized, target.Id, actor.Id)
	case models.RoleClient:
		return fmt.Errorf("%w: clients cannot adjust balances", store.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

// CanResolveRequest reports whether the actor may approve or reject the
// given balance request. Admins handle direct (parentless) requests;
// bookies handle requests from their own clients.
func CanResolveRequest(actor *models.User, request *models.BalanceRequest) error {
	switch actor.Role {
	case models.RoleAdmin:
		if request.ParentId == "" {
			return nil
		}
		return fmt.Errorf("%w: request %s belongs to a bookie", store.ErrUnauthorized, request.Id)
	case models.RoleBookie:
		if request.ParentId == actor.Id {
			return nil
		}
		return fmt.Errorf("%w: request %s does not belong to bookie %s", store.ErrUnauthorized, request.Id, actor.Id)
	case models.RoleClient:
		return fmt.Errorf("%w: clients cannot resolve balance requests", store.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

// CanTransitionTicket reports whether the actor may move the ticket to the
// requested status. Admins may perform any transition (terminality is
// enforced by the store); bookies may only validate pending tickets sold
// through them.
func CanTransitionTicket(actor *models.User, ticket *models.Ticket, to models.TicketStatus) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleBookie:
		if ticket.ParentId != actor.Id {
			return fmt.Errorf("%w: ticket %s was not sold by bookie %s", store.ErrUnauthorized, ticket.Id, actor.Id)
		}
		if ticket.Status != models.TicketPending || to != models.TicketValidated {
			return fmt.Errorf("%w: bookies may only validate pending tickets", store.ErrUnauthorized)
		}
		return nil
	case models.RoleClient:
		return fmt.Errorf("%w: clients cannot transition tickets", store.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

// CanRegisterUser reports whether the actor may create a user with the given
// role and parent. Bookies create clients under themselves only.
func CanRegisterUser(actor *models.User, role models.Role, parentId string) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleBookie:
		if role != models.RoleClient {
			return fmt.Errorf("%w: bookies may only register clients", store.ErrUnauthorized)
		}
		if parentId != actor.Id {
			return fmt.Errorf("%w: bookie-registered clients must belong to the bookie", store.ErrUnauthorized)
		}
		return nil
	case models.RoleClient:
		return fmt.Errorf("%w: clients cannot register users", store.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

// CanViewSettlement reports whether the actor may read the full settlement
// report. Bookies get their own line through Settlement.BookieLine instead.
func CanViewSettlement(actor *models.User) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleBookie, models.RoleClient:
		return fmt.Errorf("%w: %s cannot view the settlement report", store.ErrUnauthorized, actor.Role)
	default:
		return fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

// CanDeleteUser reports whether the actor may delete the target account.
func CanDeleteUser(actor *models.User, targetId string) error {
	switch actor.Role {
	case models.RoleAdmin:
		if targetId == actor.Id {
			return fmt.Errorf("%w: admins cannot delete themselves", store.ErrUnauthorized)
		}
		return nil
	case models.RoleBookie, models.RoleClient:
		return fmt.Errorf("%w: %s cannot delete users", store.ErrUnauthorized, actor.Role)
	default:
		return fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}
