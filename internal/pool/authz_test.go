package pool

import (
	"errors"
	"testing"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"
)

func user(id string, role models.Role, parentId string) *models.User {
	return &models.User{Id: id, Role: role, ParentId: parentId}
}

func TestCanAdjustBalance(t *testing.T) {
	admin := user("admin", models.RoleAdmin, "")
	bookie := user("bookie", models.RoleBookie, "")
	ownClient := user("client", models.RoleClient, "bookie")
	foreignClient := user("foreign", models.RoleClient, "other")

	tests := []struct {
		name    string
		actor   *models.User
		target  *models.User
		allowed bool
	}{
		{"admin adjusts anyone", admin, foreignClient, true},
		{"bookie adjusts own client", bookie, ownClient, true},
		{"bookie cannot adjust foreign client", bookie, foreignClient, false},
		{"bookie cannot adjust direct user", bookie, user("direct", models.RoleClient, ""), false},
		{"client cannot adjust", ownClient, ownClient, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAdjustBalance(tt.actor, tt.target)
			if tt.allowed && err != nil {
				t.Errorf("Expected allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, store.ErrUnauthorized) {
				t.Errorf("Expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestCanResolveRequest(t *testing.T) {
	admin := user("admin", models.RoleAdmin, "")
	bookie := user("bookie", models.RoleBookie, "")
	client := user("client", models.RoleClient, "bookie")

	directRequest := &models.BalanceRequest{Id: "r1"}
	parentedRequest := &models.BalanceRequest{Id: "r2", ParentId: "bookie"}
	foreignRequest := &models.BalanceRequest{Id: "r3", ParentId: "other"}

	tests := []struct {
		name    string
		actor   *models.User
		request *models.BalanceRequest
		allowed bool
	}{
		{"admin resolves direct request", admin, directRequest, true},
		{"admin cannot resolve parented request", admin, parentedRequest, false},
		{"bookie resolves own client request", bookie, parentedRequest, true},
		{"bookie cannot resolve foreign request", bookie, foreignRequest, false},
		{"bookie cannot resolve direct request", bookie, directRequest, false},
		{"client cannot resolve", client, directRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanResolveRequest(tt.actor, tt.request)
			if tt.allowed && err != nil {
				t.Errorf("Expected allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, store.ErrUnauthorized) {
				t.Errorf("Expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestCanTransitionTicket(t *testing.T) {
	admin := user("admin", models.RoleAdmin, "")
	bookie := user("bookie", models.RoleBookie, "")
	client := user("client", models.RoleClient, "bookie")

	ownPending := &models.Ticket{Id: "t1", ParentId: "bookie", Status: models.TicketPending}
	ownValidated := &models.Ticket{Id: "t2", ParentId: "bookie", Status: models.TicketValidated}
	foreignPending := &models.Ticket{Id: "t3", ParentId: "other", Status: models.TicketPending}

	tests := []struct {
		name    string
		actor   *models.User
		ticket  *models.Ticket
		to      models.TicketStatus
		allowed bool
	}{
		{"admin adjudicates any ticket", admin, foreignPending, models.TicketWon, true},
		{"bookie validates own pending ticket", bookie, ownPending, models.TicketValidated, true},
		{"bookie cannot adjudicate", bookie, ownValidated, models.TicketWon, false},
		{"bookie cannot validate foreign ticket", bookie, foreignPending, models.TicketValidated, false},
		{"bookie cannot cancel", bookie, ownPending, models.TicketCancelled, false},
		{"client cannot transition", client, ownPending, models.TicketValidated, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransitionTicket(tt.actor, tt.ticket, tt.to)
			if tt.allowed && err != nil {
				t.Errorf("Expected allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, store.ErrUnauthorized) {
				t.Errorf("Expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestCanRegisterUser(t *testing.T) {
	admin := user("admin", models.RoleAdmin, "")
	bookie := user("bookie", models.RoleBookie, "")
	client := user("client", models.RoleClient, "bookie")

	tests := []struct {
		name     string
		actor    *models.User
		role     models.Role
		parentId string
		allowed  bool
	}{
		{"admin registers bookie", admin, models.RoleBookie, "", true},
		{"admin registers parented client", admin, models.RoleClient, "bookie", true},
		{"bookie registers own client", bookie, models.RoleClient, "bookie", true},
		{"bookie cannot register bookie", bookie, models.RoleBookie, "bookie", false},
		{"bookie cannot register under another parent", bookie, models.RoleClient, "other", false},
		{"client cannot register", client, models.RoleClient, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanRegisterUser(tt.actor, tt.role, tt.parentId)
			if tt.allowed && err != nil {
				t.Errorf("Expected allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, store.ErrUnauthorized) {
				t.Errorf("Expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	admin := user("admin", models.RoleAdmin, "")
	bookie := user("bookie", models.RoleBookie, "")

	if err := CanDeleteUser(admin, "someone"); err != nil {
		t.Errorf("Expected admin delete allowed, got %v", err)
	}
	if err := CanDeleteUser(admin, "admin"); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Expected self-delete blocked, got %v", err)
	}
	if err := CanDeleteUser(bookie, "someone"); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Expected bookie delete blocked, got %v", err)
	}
}

func TestCanManageSlateAndSettlement(t *testing.T) {
	admin := user("admin", models.RoleAdmin, "")
	bookie := user("bookie", models.RoleBookie, "")
	client := user("client", models.RoleClient, "")

	if err := CanManageSlate(admin); err != nil {
		t.Errorf("Expected admin slate access, got %v", err)
	}
	for _, actor := range []*models.User{bookie, client} {
		if err := CanManageSlate(actor); !errors.Is(err, store.ErrUnauthorized) {
			t.Errorf("Expected %s slate access blocked, got %v", actor.Role, err)
		}
		if err := CanViewSettlement(actor); !errors.Is(err, store.ErrUnauthorized) {
			t.Errorf("Expected %s settlement access blocked, got %v", actor.Role, err)
		}
	}
	if err := CanViewSettlement(admin); err != nil {
		t.Errorf("Expected admin settlement access, got %v", err)
	}
}
