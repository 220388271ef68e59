package domain

import "time"

// IssueCategory classifies what a ticket is about.
type IssueCategory string

const (
	IssueCategoryLaptop   IssueCategory = "LAPTOP"
	IssueCategoryNetwork  IssueCategory = "NETWORK"
	IssueCategorySoftware IssueCategory = "SOFTWARE"
	IssueCategoryAccess   IssueCategory = "ACCESS"
)

// IssueCategories lists every category in declaration order.
var IssueCategories = []IssueCategory{
	IssueCategoryLaptop,
	IssueCategoryNetwork,
	IssueCategorySoftware,
	IssueCategoryAccess,
}

// Valid reports whether c is a declared category. Matching is case-sensitive.
func (c IssueCategory) Valid() bool {
	for _, candidate := range IssueCategories {
		if c == candidate {
			return true
		}
	}
	return false
}

// TicketPriority enumerates ticket urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// TicketPriorities lists every priority in declaration order.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
}

// Valid reports whether p is a declared priority. Matching is case-sensitive.
func (p TicketPriority) Valid() bool {
	for _, candidate := range TicketPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// Ticket is a reported issue. It is created once and never mutated.
type Ticket struct {
	ID            int64
	EmployeeID    int64
	EmployeeName  string
	IssueCategory IssueCategory
	Description   string
	Priority      TicketPriority
	CreatedAt     time.Time
}
