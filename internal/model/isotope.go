package model

import "time"

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Isotopes holds the four IRMS ratios in per-mil.
type Isotopes struct {
	Carbon   float64 `json:"carbon"`
	Nitrogen float64 `json:"nitrogen"`
	Oxygen   float64 `json:"oxygen"`
	Hydrogen float64 `json:"hydrogen"`
}

type IsotopeReferences struct {
	Carbon   Range `json:"carbon"`
	Nitrogen Range `json:"nitrogen"`
	Oxygen   Range `json:"oxygen"`
	Hydrogen Range `json:"hydrogen"`
}

type IsotopeRecord struct {
	ID                 string             `json:"id"`
	BatchID            string             `json:"batchId"`
	FarmName           string             `json:"farmName"`
	HarvestDate        time.Time          `json:"harvestDate"`
	Location           GeoLocation        `json:"location"`
	Isotopes           Isotopes           `json:"isotopes"`
	ReferenceValues    IsotopeReferences  `json:"referenceValues"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	ConfidenceScore    int                `json:"confidenceScore"`
	TestingFacility    string             `json:"testingFacility"`
	TestDate           time.Time          `json:"testDate"`
	LastUpdated        time.Time          `json:"lastUpdated"`
}

func (r IsotopeRecord) Key() string { return r.ID }

// IsotopeMatch reports per ratio whether the measurement is inside its
// reference range.
type IsotopeMatch struct {
	Carbon   bool `json:"carbon"`
	Nitrogen bool `json:"nitrogen"`
	Oxygen   bool `json:"oxygen"`
	Hydrogen bool `json:"hydrogen"`
}

func (m IsotopeMatch) All() bool {
	return m.Carbon && m.Nitrogen && m.Oxygen && m.Hydrogen
}

func (r IsotopeRecord) WithinReference() IsotopeMatch {
	return IsotopeMatch{
		Carbon:   r.ReferenceValues.Carbon.Contains(r.Isotopes.Carbon),
		Nitrogen: r.ReferenceValues.Nitrogen.Contains(r.Isotopes.Nitrogen),
		Oxygen:   r.ReferenceValues.Oxygen.Contains(r.Isotopes.Oxygen),
		Hydrogen: r.ReferenceValues.Hydrogen.Contains(r.Isotopes.Hydrogen),
	}
}
