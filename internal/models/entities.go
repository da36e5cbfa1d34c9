package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SlateSize is the number of matches in one betting slate. Every ticket
// carries exactly one pick per slate position.
const SlateSize = 12

// Role classifies a user's capabilities.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleBookie Role = "BOOKIE"
	RoleClient Role = "CLIENT"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBookie, RoleClient:
		return true
	}
	return false
}

// Pick is a predicted match outcome: home win, draw, or away win.
type Pick string

const (
	PickHome Pick = "H"
	PickDraw Pick = "D"
	PickAway Pick = "A"
)

// Valid reports whether p is one of H, D, A.
func (p Pick) Valid() bool {
	switch p {
	case PickHome, PickDraw, PickAway:
		return true
	}
	return false
}

// TicketStatus is the lifecycle state of a ticket.
// PENDING and VALIDATED are live; WON, LOST and CANCELLED are terminal.
type TicketStatus string

const (
	TicketPending   TicketStatus = "PENDING"
	TicketValidated TicketStatus = "VALIDATED"
	TicketWon       TicketStatus = "WON"
	TicketLost      TicketStatus = "LOST"
	TicketCancelled TicketStatus = "CANCELLED"
)

// Valid reports whether s is one of the five lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketPending, TicketValidated, TicketWon, TicketLost, TicketCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to the
// target. Pending tickets can be validated or cancelled; validated tickets
// can be adjudicated or cancelled; terminal states allow nothing.
func (s TicketStatus) CanTransitionTo(to TicketStatus) bool {
	switch s {
	case TicketPending:
		return to == TicketValidated || to == TicketCancelled
	case TicketValidated:
		return to == TicketWon || to == TicketLost || to == TicketCancelled
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s TicketStatus) Terminal() bool {
	switch s {
	case TicketWon, TicketLost, TicketCancelled:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a balance top-up request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// User represents an account in the system. ParentId links a client to the
// bookie that registered them; it is empty for direct (admin-managed) users.
type User struct {
	Id                    string          `db:"id" json:"id"`
	Name                  string          `db:"name" json:"name"`
	Username              string          `db:"username" json:"username"`
	PasswordHash          string          `db:"password_hash" json:"-"`
	Role                  Role            `db:"role" json:"role"`
	Balance               decimal.Decimal `db:"balance" json:"balance"`
	PixKey                string          `db:"pix_key" json:"pixKey"`
	ParentId              string          `db:"parent_id" json:"parentId,omitempty"`
	TotalDepositsByBookie decimal.Decimal `db:"total_deposits_by_bookie" json:"totalDepositsByBookie"`
	CreatedAt             time.Time       `db:"created_at" json:"createdAt"`
}

// Match is one fixture of the slate. Date is free text exactly as the admin
// typed it. Position fixes the slate order (0-based).
type Match struct {
	Id       string `db:"id" json:"id"`
	League   string `db:"league" json:"league"`
	HomeTeam string `db:"home_team" json:"homeTeam"`
	AwayTeam string `db:"away_team" json:"awayTeam"`
	Date     string `db:"date" json:"date"`
	Result   Pick   `db:"result" json:"result,omitempty"` // empty until adjudicated
	Position int    `db:"position" json:"position"`
}

// MatchPair is the team-name snapshot stored on a ticket at purchase time.
// Later match edits never change it.
type MatchPair struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Ticket is one purchased prediction slip. Cost and PotentialPrize are
// snapshots of the settings at purchase time; MatchInfo snapshots the slate.
type Ticket struct {
	Id             string          `db:"id" json:"id"`
	UserId         string          `db:"user_id" json:"userId"`
	UserName       string          `db:"user_name" json:"userName"`
	Picks          []Pick          `db:"picks" json:"picks"`
	MatchInfo      []MatchPair     `db:"match_info" json:"matchInfo"`
	Cost           decimal.Decimal `db:"cost" json:"cost"`
	PotentialPrize decimal.Decimal `db:"potential_prize" json:"potentialPrize"`
	Status         TicketStatus    `db:"status" json:"status"`
	ParentId       string          `db:"parent_id" json:"parentId,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// BalanceRequest is a manual top-up request awaiting resolution by the admin
// (no parent) or the owning bookie (parent set).
type BalanceRequest struct {
	Id        string          `db:"id" json:"id"`
	UserId    string          `db:"user_id" json:"userId"`
	UserName  string          `db:"user_name" json:"userName"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Status    RequestStatus   `db:"status" json:"status"`
	ParentId  string          `db:"parent_id" json:"parentId,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

// AppSettings is the singleton application configuration row.
type AppSettings struct {
	PixKey         string          `db:"pix_key" json:"pixKey"`
	BettingBlocked bool            `db:"betting_blocked" json:"bettingBlocked"`
	TicketPrice    decimal.Decimal `db:"ticket_price" json:"ticketPrice"`
	JackpotPrize   decimal.Decimal `db:"jackpot_prize" json:"jackpotPrize"`
}
