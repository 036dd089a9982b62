package model

import "time"

type ActionStatus string

const (
	ActionApproved ActionStatus = "approved"
	ActionHold     ActionStatus = "hold"
)

var ActionStatuses = []ActionStatus{ActionApproved, ActionHold}

func (s ActionStatus) Valid() bool {
	return s == ActionApproved || s == ActionHold
}

type StatusEntry struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Status    ActionStatus `json:"status"`
	UpdatedBy string       `json:"updatedBy"`
	Note      string       `json:"notes,omitempty"`
}

type Origin struct {
	Location    string     `json:"location"`
	Country     string     `json:"country"`
	Coordinates [2]float64 `json:"coordinates"`
}

// ComplianceBatch is the compliance dashboard's view of a batch.
// StatusHistory is kept newest first and ActionStatus mirrors its head.
type ComplianceBatch struct {
	ID                  string             `json:"id"`
	BatchID             string             `json:"batchId"`
	Origin              Origin             `json:"origin"`
	ProcessingDate      time.Time          `json:"processingDate"`
	SustainabilityScore int                `json:"sustainabilityScore"`
	CertificationStatus VerificationStatus `json:"certificationStatus"`
	QualityParameters   QualityMetrics     `json:"qualityParameters"`
	ComplianceNotes     string             `json:"complianceNotes"`
	ActionStatus        ActionStatus       `json:"actionStatus"`
	LastUpdated         time.Time          `json:"lastUpdated"`
	UpdatedBy           string             `json:"updatedBy"`
	StatusHistory       []StatusEntry      `json:"statusHistory"`
	PendingIssues       []string           `json:"pendingIssues,omitempty"`
}

func (c ComplianceBatch) Key() string { return c.ID }

// SetStatus prepends a new history head. Earlier entries are never
// rewritten. Approval clears the pending issues.
func (c *ComplianceBatch) SetStatus(entry StatusEntry) {
	history := make([]StatusEntry, 0, len(c.StatusHistory)+1)
	history = append(history, entry)
	history = append(history, c.StatusHistory...)
	c.StatusHistory = history
	c.ActionStatus = entry.Status
	c.LastUpdated = entry.Timestamp
	c.UpdatedBy = entry.UpdatedBy
	if entry.Status == ActionApproved {
		c.PendingIssues = nil
	}
}

func (c ComplianceBatch) Clone() ComplianceBatch {
	out := c
	out.StatusHistory = append([]StatusEntry(nil), c.StatusHistory...)
	out.PendingIssues = append([]string(nil), c.PendingIssues...)
	if len(out.PendingIssues) == 0 {
		out.PendingIssues = nil
	}
	return out
}
