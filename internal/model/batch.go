package model

import (
	"errors"
	"fmt"
	"time"
)

type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "verified"
	VerificationPending  VerificationStatus = "pending"
	VerificationFailed   VerificationStatus = "failed"
)

// VerificationStatuses is the enumerated order used by summaries.
var VerificationStatuses = []VerificationStatus{VerificationVerified, VerificationPending, VerificationFailed}

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationVerified, VerificationPending, VerificationFailed:
		return true
	}
	return false
}

type RegionalStatus string

const (
	RegionalCompliant    RegionalStatus = "compliant"
	RegionalNonCompliant RegionalStatus = "non-compliant"
	RegionalPending      RegionalStatus = "pending"
)

func (s RegionalStatus) Valid() bool {
	switch s {
	case RegionalCompliant, RegionalNonCompliant, RegionalPending:
		return true
	}
	return false
}

// Grades lists the accepted quality grades. Order here is for validation
// only; sorting by grade stays lexicographic.
var Grades = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C"}

func ValidGrade(g string) bool {
	for _, v := range Grades {
		if v == g {
			return true
		}
	}
	return false
}

var (
	ErrScoreOutOfRange   = errors.New("sustainability score out of range")
	ErrInvalidGrade      = errors.New("invalid quality grade")
	ErrCustodyOutOfOrder = errors.New("custody event older than chain tail")
	ErrInvalidStatus     = errors.New("invalid status")
)

type GeoLocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"`
	Region    string   `json:"region"`
	Country   string   `json:"country"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type QualityMetrics struct {
	Grade        string  `json:"grade"`
	FiberLength  float64 `json:"fiberLength"`
	Strength     float64 `json:"strength"`
	Micronaire   float64 `json:"micronaire"`
	Color        string  `json:"color"`
	TrashContent float64 `json:"trashContent"`
}

type IsotopeMarking struct {
	ID                   string             `json:"id"`
	MarkingDate          time.Time          `json:"markingDate"`
	MarkingType          string             `json:"markingType"`
	VerificationStatus   VerificationStatus `json:"verificationStatus"`
	LastVerificationDate *time.Time         `json:"lastVerificationDate,omitempty"`
}

type Bale struct {
	BaleNo     string  `json:"baleNo"`
	Weight     float64 `json:"weight"`
	Micronaire float64 `json:"micronaire"`
	Strength   float64 `json:"strength"`
	Length     float64 `json:"length"`
}

type Measure struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// EquipmentData is the harvester record captured at module build time.
type EquipmentData struct {
	ClientName     string    `json:"clientName"`
	FarmName       string    `json:"farmName"`
	FieldName      string    `json:"fieldName"`
	HarvesterID    string    `json:"harvesterId"`
	HarvesterModel string    `json:"harvesterModel"`
	OperatorID     string    `json:"operatorId"`
	OperatorName   string    `json:"operatorName"`
	CottonVariety  string    `json:"cottonVariety"`
	Location       GeoPoint  `json:"location"`
	GMTDateTime    time.Time `json:"gmtDateTime"`
	FieldArea      Measure   `json:"fieldArea"`
	ModuleID       string    `json:"moduleId"`
	Bales          []Bale    `json:"bales"`
}

type GinProduction struct {
	FiberBaleProductionDate time.Time `json:"fiberBaleProductionDate"`
	FiberBaleID             string    `json:"fiberBaleId"`
	BaleWeight              float64   `json:"baleWeight"`
	ModuleWeight            float64   `json:"moduleWeight"`
	FieldTotalCotton        float64   `json:"fieldTotalCotton"`
}

type GinQuality struct {
	MoistureContent    float64 `json:"moistureContent"`
	TrashContent       float64 `json:"trashContent"`
	USDAClassification string  `json:"usdaClassification"`
	USDASortCategory   string  `json:"usdaSortCategory"`
}

type GinData struct {
	GinID              string        `json:"ginId"`
	FacilityName       string        `json:"facilityName"`
	EntryDate          time.Time     `json:"entryDate"`
	ExitDate           time.Time     `json:"exitDate"`
	ProductionDetails  GinProduction `json:"productionDetails"`
	QualityMetrics     GinQuality    `json:"qualityMetrics"`
	Comments           string        `json:"comments,omitempty"`
	MoisturePercentage float64       `json:"moisturePercentage"`
}

type ForcedLaborVerification struct {
	Status           VerificationStatus `json:"status"`
	VerificationDate *time.Time         `json:"verificationDate,omitempty"`
	Verifier         string             `json:"verifier,omitempty"`
	Documents        []string           `json:"documents,omitempty"`
}

type OrganicStatus struct {
	Status          VerificationStatus `json:"status"`
	CertificationID string             `json:"certificationId,omitempty"`
}

type RegionalCompliance struct {
	Region       string         `json:"region"`
	Status       RegionalStatus `json:"status"`
	Requirements []string       `json:"requirements"`
}

type ComplianceStatus struct {
	ForcedLaborVerification ForcedLaborVerification `json:"forcedLaborVerification"`
	OrganicStatus           OrganicStatus           `json:"organicStatus"`
	RegionalCompliance      []RegionalCompliance    `json:"regionalCompliance"`
}

type CustodyEvent struct {
	Timestamp               time.Time   `json:"timestamp"`
	FromEntity              string      `json:"fromEntity"`
	ToEntity                string      `json:"toEntity"`
	Location                GeoLocation `json:"location"`
	TransportMethod         string      `json:"transportMethod,omitempty"`
	VerificationMethod      string      `json:"verificationMethod"`
	Documents               []string    `json:"documents,omitempty"`
	BlockchainTransactionID string      `json:"blockchainTransactionId,omitempty"`
}

// Batch is a traceable cotton module.
type Batch struct {
	ID                  string           `json:"id"`
	HarvestID           string           `json:"harvestId"`
	FarmerID            string           `json:"farmerId"`
	FarmName            string           `json:"farmName"`
	HarvestDate         time.Time        `json:"harvestDate"`
	Location            GeoLocation      `json:"location"`
	FieldBoundaries     []GeoPoint       `json:"fieldBoundaries"`
	Quantity            float64          `json:"quantity"`
	Quality             QualityMetrics   `json:"quality"`
	Certifications      []Certification  `json:"certifications"`
	BlockchainTokenID   string           `json:"blockchainTokenId,omitempty"`
	IsotopeMarking      *IsotopeMarking  `json:"isotopeMarking,omitempty"`
	EquipmentData       EquipmentData    `json:"equipmentData"`
	GinData             GinData          `json:"ginData"`
	ComplianceStatus    ComplianceStatus `json:"complianceStatus"`
	CurrentCustodian    string           `json:"currentCustodian"`
	CustodyChain        []CustodyEvent   `json:"custodyChain"`
	SustainabilityScore int              `json:"sustainabilityScore"`
}

// Key returns the batch identifier.
func (b Batch) Key() string { return b.ID }

// Validate checks the record invariants.
func (b *Batch) Validate() error {
	if b.SustainabilityScore < 0 || b.SustainabilityScore > 100 {
		return fmt.Errorf("batch %s: %w: %d", b.ID, ErrScoreOutOfRange, b.SustainabilityScore)
	}
	if !ValidGrade(b.Quality.Grade) {
		return fmt.Errorf("batch %s: %w: %q", b.ID, ErrInvalidGrade, b.Quality.Grade)
	}
	cs := b.ComplianceStatus
	if !cs.ForcedLaborVerification.Status.Valid() || !cs.OrganicStatus.Status.Valid() {
		return fmt.Errorf("batch %s: %w: verification", b.ID, ErrInvalidStatus)
	}
	for _, rc := range cs.RegionalCompliance {
		if !rc.Status.Valid() {
			return fmt.Errorf("batch %s: %w: regional %q", b.ID, ErrInvalidStatus, rc.Status)
		}
	}
	for i := 1; i < len(b.CustodyChain); i++ {
		if b.CustodyChain[i].Timestamp.Before(b.CustodyChain[i-1].Timestamp) {
			return fmt.Errorf("batch %s: %w at index %d", b.ID, ErrCustodyOutOfOrder, i)
		}
	}
	for _, c := range b.Certifications {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("batch %s: %w", b.ID, err)
		}
	}
	return nil
}

// AppendCustody adds a transfer to the end of the chain and moves the
// current custodian.
func (b *Batch) AppendCustody(ev CustodyEvent) error {
	if n := len(b.CustodyChain); n > 0 && ev.Timestamp.Before(b.CustodyChain[n-1].Timestamp) {
		return fmt.Errorf("batch %s: %w", b.ID, ErrCustodyOutOfOrder)
	}
	b.CustodyChain = append(b.CustodyChain, ev)
	b.CurrentCustodian = ev.ToEntity
	return nil
}

// Clone returns a copy that shares no slices with b.
func (b Batch) Clone() Batch {
	out := b
	out.FieldBoundaries = append([]GeoPoint(nil), b.FieldBoundaries...)
	out.Certifications = append([]Certification(nil), b.Certifications...)
	out.CustodyChain = append([]CustodyEvent(nil), b.CustodyChain...)
	out.ComplianceStatus.RegionalCompliance = append([]RegionalCompliance(nil), b.ComplianceStatus.RegionalCompliance...)
	out.EquipmentData.Bales = append([]Bale(nil), b.EquipmentData.Bales...)
	if b.IsotopeMarking != nil {
		m := *b.IsotopeMarking
		out.IsotopeMarking = &m
	}
	return out
}
