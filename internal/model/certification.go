package model

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

type CertificationStatus string

const (
	CertificationActive  CertificationStatus = "active"
	CertificationExpired CertificationStatus = "expired"
	CertificationRevoked CertificationStatus = "revoked"
)

var CertificationStatuses = []CertificationStatus{CertificationActive, CertificationExpired, CertificationRevoked}

type CertificationType string

const (
	CertOrganic        CertificationType = "organic"
	CertSustainable    CertificationType = "sustainable"
	CertFairTrade      CertificationType = "fair-trade"
	CertLaborCompliant CertificationType = "labor-compliant"
	CertOther          CertificationType = "other"
)

var CertificationTypes = []CertificationType{CertOrganic, CertSustainable, CertFairTrade, CertLaborCompliant, CertOther}

var (
	ErrCertificationDates = errors.New("certification issued after expiry")
	ErrInvalidCertType    = errors.New("invalid certification type")
)

func (t CertificationType) Valid() bool {
	return slices.Contains(CertificationTypes, t)
}

type Certification struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Issuer      string              `json:"issuer"`
	IssueDate   time.Time           `json:"issueDate"`
	ExpiryDate  time.Time           `json:"expiryDate"`
	Status      CertificationStatus `json:"status"`
	DocumentURL string              `json:"documentUrl,omitempty"`
	Type        CertificationType   `json:"type"`
}

func (c Certification) Validate() error {
	if c.IssueDate.After(c.ExpiryDate) {
		return fmt.Errorf("certification %s: %w", c.ID, ErrCertificationDates)
	}
	switch c.Status {
	case CertificationActive, CertificationExpired, CertificationRevoked:
	default:
		return fmt.Errorf("certification %s: %w: %q", c.ID, ErrInvalidStatus, c.Status)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("certification %s: %w: %q", c.ID, ErrInvalidCertType, c.Type)
	}
	return nil
}

// EffectiveStatus applies date expiry to an active certification.
// Revoked stays revoked.
func (c Certification) EffectiveStatus(now time.Time) CertificationStatus {
	if c.Status == CertificationActive && now.After(c.ExpiryDate) {
		return CertificationExpired
	}
	return c.Status
}

// Revoke marks a certification that is active at now revoked. Expired
// and revoked certifications are left untouched.
func (c *Certification) Revoke(now time.Time) bool {
	if c.EffectiveStatus(now) != CertificationActive {
		return false
	}
	c.Status = CertificationRevoked
	return true
}
