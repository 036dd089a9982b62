package model

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestInReview RequestStatus = "In Review"
	RequestVerified RequestStatus = "Verified"
	RequestRejected RequestStatus = "Rejected"
)

var RequestStatuses = []RequestStatus{RequestPending, RequestInReview, RequestVerified, RequestRejected}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type VerificationRequest struct {
	ID              string        `json:"id"`
	SubmissionDate  time.Time     `json:"submissionDate"`
	CompanyName     string        `json:"companyName"`
	DocumentType    string        `json:"documentType"`
	Status          RequestStatus `json:"status"`
	Priority        Priority      `json:"priority"`
	AssignedAuditor string        `json:"assignedAuditor"`
	TimeInQueue     int           `json:"timeInQueue"`
}

func (v VerificationRequest) Key() string { return v.ID }

// DaysInQueue counts whole days between submission and now.
func DaysInQueue(submitted, now time.Time) int {
	if now.Before(submitted) {
		return 0
	}
	return int(now.Sub(submitted).Hours() / 24)
}
