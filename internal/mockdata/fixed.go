package mockdata

import (
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
)

var queue = []struct {
	id, company, doc, auditor string
	status                    model.RequestStatus
	priority                  model.Priority
	days                      int
}{
	{"VR-2024-0001", "Sunshine Organic Farms", "Compliance Report", "Sarah Johnson", model.RequestInReview, model.PriorityHigh, 25},
	{"VR-2024-0002", "Green Valley Cotton", "FibreTrace Verification", "Michael Chen", model.RequestPending, model.PriorityMedium, 20},
	{"VR-2024-0003", "Delta Cotton Cooperative", "Module to Bale Verification", "Emily Rodriguez", model.RequestVerified, model.PriorityLow, 15},
	{"VR-2024-0004", "Western Cotton Growers", "Labor Practices Audit", "James Wilson", model.RequestRejected, model.PriorityHigh, 12},
	{"VR-2024-0005", "Heartland Farms", "Environmental Impact Report", "Sarah Johnson", model.RequestPending, model.PriorityHigh, 10},
	{"VR-2024-0006", "Blue Sky Organics", "Certification Renewal", "Michael Chen", model.RequestInReview, model.PriorityMedium, 8},
	{"VR-2024-0007", "Golden State Cotton", "Uster HVI 1000 Verification", "Emily Rodriguez", model.RequestPending, model.PriorityLow, 5},
	{"VR-2024-0008", "Southern Harvest Co-op", "Supply Chain Audit", "James Wilson", model.RequestInReview, model.PriorityHigh, 3},
	{"VR-2024-0009", "Prairie Cotton Fields", "Sustainability Report", "Sarah Johnson", model.RequestPending, model.PriorityMedium, 1},
}

// VerificationQueue returns the nine open audit requests, submitted the
// given number of days before now.
func VerificationQueue(now time.Time) []model.VerificationRequest {
	out := make([]model.VerificationRequest, 0, len(queue))
	for _, q := range queue {
		submitted := now.Add(-time.Duration(q.days) * day)
		out = append(out, model.VerificationRequest{
			ID:              q.id,
			SubmissionDate:  submitted,
			CompanyName:     q.company,
			DocumentType:    q.doc,
			Status:          q.status,
			Priority:        q.priority,
			AssignedAuditor: q.auditor,
			TimeInQueue:     model.DaysInQueue(submitted, now),
		})
	}
	return out
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Reports returns the saved reports shown before any are generated.
func Reports() []model.Report {
	start, end := date("2023-07-01T00:00:00Z"), date("2023-09-30T00:00:00Z")
	minScore := 80
	return []model.Report{
		{
			ID:        "REP-001",
			Name:      "Q3 Compliance Report",
			CreatedAt: date("2023-09-01T10:30:00Z"),
			CreatedBy: "John Smith",
			Type:      model.ReportCompliance,
			Filters:   model.ReportFilter{HarvestDateStart: &start, HarvestDateEnd: &end},
			Format:    model.FormatJSON,
			URL:       "https://example.com/reports/REP-001.json",
			Status:    model.ReportCompleted,
		},
		{
			ID:        "REP-002",
			Name:      "Sustainability Metrics 2023",
			CreatedAt: date("2023-09-15T14:45:00Z"),
			CreatedBy: "John Smith",
			Type:      model.ReportSustainability,
			Filters:   model.ReportFilter{SustainabilityScoreMin: &minScore},
			Format:    model.FormatCSV,
			URL:       "https://example.com/reports/REP-002.csv",
			Status:    model.ReportCompleted,
		},
		{
			ID:        "REP-003",
			Name:      "California Region Traceability",
			CreatedAt: date("2023-09-20T09:15:00Z"),
			CreatedBy: "John Smith",
			Type:      model.ReportTraceability,
			Filters:   model.ReportFilter{Region: "California"},
			Format:    model.FormatJSON,
			Status:    model.ReportGenerating,
		},
	}
}
