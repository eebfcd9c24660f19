package models

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusApproved   ProjectStatus = "approved"
	ProjectStatusFunded     ProjectStatus = "funded"
	ProjectStatusInvoiced   ProjectStatus = "invoiced"
	ProjectStatusReconciled ProjectStatus = "reconciled"
)

func (s ProjectStatus) String() string {
	return string(s)
}

func (s ProjectStatus) CapitalizedString() string {
	return cases.Title(language.English).String(s.String())
}

// Promotion records a promotional message posted for a project so it can be
// updated in place when pledge totals change.
type Promotion struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// Project is a proposed purchase seeking pledges toward a fixed target.
// The id is the key of the project document and is not serialized with the
// record itself. Timestamps are unix seconds so the persisted document stays
// diffable.
type Project struct {
	ID             string         `json:"-"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	ImageURL       string         `json:"image_url,omitempty"`
	Total          int            `json:"total"`
	Pledges        map[string]int `json:"pledges,omitempty"`
	CreatedBy      string         `json:"created_by"`
	CreatedAt      int64          `json:"created_at"`
	LastUpdatedBy  string         `json:"last_updated_by,omitempty"`
	LastUpdatedAt  int64          `json:"last_updated_at,omitempty"`
	Approved       bool           `json:"approved"`
	ApprovedAt     int64          `json:"approved_at,omitempty"`
	DGR            bool           `json:"dgr"`
	FundedAt       int64          `json:"funded_at,omitempty"`
	InvoicesSentAt int64          `json:"invoices_sent,omitempty"`
	ReconciledAt   int64          `json:"reconciled_at,omitempty"`
	Promotions     []Promotion    `json:"promotions,omitempty"`
}

// PledgeTotal is the sum of all current pledges.
func (p *Project) PledgeTotal() int {
	total := 0
	for _, amount := range p.Pledges {
		total += amount
	}
	return total
}

// Backers is the number of members with a current pledge.
func (p *Project) Backers() int {
	return len(p.Pledges)
}

// PledgeFor returns the member's current pledge, zero if they have none.
func (p *Project) PledgeFor(memberID string) int {
	return p.Pledges[memberID]
}

// Funded reports whether cumulative pledges have reached the target. It is
// recomputed on demand and never cached as a flag.
func (p *Project) Funded() bool {
	return p.PledgeTotal() >= p.Total
}

// Old reports whether the project should drop off the recently-funded view:
// either it was never funded, or it was funded more than thresholdDays ago.
func (p *Project) Old(thresholdDays int) bool {
	if p.FundedAt == 0 {
		return true
	}
	return time.Since(time.Unix(p.FundedAt, 0)) > time.Duration(thresholdDays)*24*time.Hour
}

// Status derives the lifecycle stage from the record's stamps.
func (p *Project) Status() ProjectStatus {
	switch {
	case p.ReconciledAt != 0:
		return ProjectStatusReconciled
	case p.InvoicesSentAt != 0:
		return ProjectStatusInvoiced
	case p.Funded():
		return ProjectStatusFunded
	case p.Approved:
		return ProjectStatusApproved
	default:
		return ProjectStatusDraft
	}
}

// Clone returns a deep copy, used to hand out snapshots for update diffs.
func (p *Project) Clone() *Project {
	clone := *p

	if p.Pledges != nil {
		clone.Pledges = make(map[string]int, len(p.Pledges))
		for member, amount := range p.Pledges {
			clone.Pledges[member] = amount
		}
	}

	if p.Promotions != nil {
		clone.Promotions = make([]Promotion, len(p.Promotions))
		copy(clone.Promotions, p.Promotions)
	}

	return &clone
}
