package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func validBatch() Batch {
	return Batch{
		ID:                  "MODULE-23410387436",
		FarmName:            "Sunshine Organic Farms",
		Quality:             QualityMetrics{Grade: "A"},
		SustainabilityScore: 92,
		ComplianceStatus: ComplianceStatus{
			ForcedLaborVerification: ForcedLaborVerification{Status: VerificationVerified},
			OrganicStatus:           OrganicStatus{Status: VerificationVerified},
			RegionalCompliance:      []RegionalCompliance{{Region: "Mississippi", Status: RegionalCompliant}},
		},
		Certifications: []Certification{{
			ID:         "CERT-001",
			IssueDate:  ts("2024-11-15T00:00:00Z"),
			ExpiryDate: ts("2026-11-15T00:00:00Z"),
			Status:     CertificationActive,
			Type:       CertOrganic,
		}},
		CustodyChain: []CustodyEvent{{Timestamp: ts("2024-10-16T17:00:00Z"), ToEntity: "Sunshine Cotton Gin"}},
	}
}

func TestBatch_Validate(t *testing.T) {
	require.NoError(t, func() error { b := validBatch(); return b.Validate() }())

	tests := []struct {
		name   string
		mutate func(*Batch)
		want   error
	}{
		{"score above 100", func(b *Batch) { b.SustainabilityScore = 101 }, ErrScoreOutOfRange},
		{"negative score", func(b *Batch) { b.SustainabilityScore = -1 }, ErrScoreOutOfRange},
		{"unknown grade", func(b *Batch) { b.Quality.Grade = "D" }, ErrInvalidGrade},
		{"bad labor status", func(b *Batch) { b.ComplianceStatus.ForcedLaborVerification.Status = "unknown" }, ErrInvalidStatus},
		{"bad regional status", func(b *Batch) { b.ComplianceStatus.RegionalCompliance[0].Status = "ok" }, ErrInvalidStatus},
		{"custody out of order", func(b *Batch) {
			b.CustodyChain = append(b.CustodyChain, CustodyEvent{Timestamp: ts("2024-10-01T00:00:00Z")})
		}, ErrCustodyOutOfOrder},
		{"cert expires before issue", func(b *Batch) {
			b.Certifications[0].ExpiryDate = ts("2024-01-01T00:00:00Z")
		}, ErrCertificationDates},
		{"unknown cert type", func(b *Batch) { b.Certifications[0].Type = "vegan" }, ErrInvalidCertType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBatch()
			tt.mutate(&b)
			assert.ErrorIs(t, b.Validate(), tt.want)
		})
	}
}

func TestBatch_AppendCustody(t *testing.T) {
	b := validBatch()
	err := b.AppendCustody(CustodyEvent{Timestamp: ts("2024-10-01T00:00:00Z"), ToEntity: "Mill"})
	assert.ErrorIs(t, err, ErrCustodyOutOfOrder)
	assert.Len(t, b.CustodyChain, 1)

	require.NoError(t, b.AppendCustody(CustodyEvent{Timestamp: ts("2024-10-16T17:00:00Z"), ToEntity: "Mill"}))
	assert.Len(t, b.CustodyChain, 2)
	assert.Equal(t, "Mill", b.CurrentCustodian)
}

func TestBatch_CloneIsIndependent(t *testing.T) {
	b := validBatch()
	c := b.Clone()
	c.Certifications[0].Status = CertificationRevoked
	c.ComplianceStatus.RegionalCompliance[0].Status = RegionalPending
	assert.Equal(t, CertificationActive, b.Certifications[0].Status)
	assert.Equal(t, RegionalCompliant, b.ComplianceStatus.RegionalCompliance[0].Status)
}

func TestCertification_Lifecycle(t *testing.T) {
	c := validBatch().Certifications[0]
	assert.Equal(t, CertificationActive, c.EffectiveStatus(ts("2025-01-01T00:00:00Z")))
	assert.Equal(t, CertificationExpired, c.EffectiveStatus(ts("2027-01-01T00:00:00Z")))

	lapsed := c
	assert.False(t, lapsed.Revoke(ts("2027-01-01T00:00:00Z")), "past expiry is already expired")
	assert.Equal(t, CertificationActive, lapsed.Status)

	assert.True(t, c.Revoke(ts("2025-01-01T00:00:00Z")))
	assert.Equal(t, CertificationRevoked, c.EffectiveStatus(ts("2027-01-01T00:00:00Z")))
	assert.False(t, c.Revoke(ts("2025-01-01T00:00:00Z")))
}

func TestComplianceBatch_SetStatus(t *testing.T) {
	cb := ComplianceBatch{
		ActionStatus:  ActionHold,
		PendingIssues: []string{"Documentation incomplete"},
		StatusHistory: []StatusEntry{{ID: "h1", Status: ActionHold, Timestamp: ts("2024-01-01T00:00:00Z")}},
	}
	before := cb.Clone()

	cb.SetStatus(StatusEntry{ID: "h2", Status: ActionApproved, Timestamp: ts("2024-02-01T00:00:00Z"), UpdatedBy: "John Smith"})
	require.Len(t, cb.StatusHistory, 2)
	assert.Equal(t, "h2", cb.StatusHistory[0].ID)
	assert.Equal(t, before.StatusHistory[0], cb.StatusHistory[1])
	assert.Equal(t, ActionApproved, cb.ActionStatus)
	assert.Equal(t, "John Smith", cb.UpdatedBy)
	assert.Empty(t, cb.PendingIssues)
	assert.Len(t, before.PendingIssues, 1)
}

func TestIsotopeRecord_WithinReference(t *testing.T) {
	r := IsotopeRecord{
		Isotopes: Isotopes{Carbon: -25, Nitrogen: 10, Oxygen: 15, Hydrogen: -100},
		ReferenceValues: IsotopeReferences{
			Carbon:   Range{Min: -29, Max: -21},
			Nitrogen: Range{Min: 1, Max: 9},
			Oxygen:   Range{Min: 8, Max: 22},
			Hydrogen: Range{Min: -125, Max: -75},
		},
	}
	m := r.WithinReference()
	assert.Equal(t, IsotopeMatch{Carbon: true, Nitrogen: false, Oxygen: true, Hydrogen: true}, m)
	assert.False(t, m.All())
}

func TestDaysInQueue(t *testing.T) {
	now := ts("2025-03-10T12:00:00Z")
	assert.Equal(t, 9, DaysInQueue(ts("2025-03-01T00:00:00Z"), now))
	assert.Equal(t, 0, DaysInQueue(ts("2025-03-11T00:00:00Z"), now))
}
