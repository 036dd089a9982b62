// Package export serializes filtered collections and hands the bytes to
// a sink.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
)

// JSON encodes records as a two-space indented array. An empty input
// encodes as [].
func JSON[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json export: %w", err)
	}
	return data, nil
}

type Column[T any] struct {
	Header string
	Value  func(T) string
}

// CSV writes a header row followed by one row per record.
func CSV[T any](records []T, columns []Column[T]) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = c.Header
	}
	if err := w.Write(row); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		for i, c := range columns {
			row[i] = c.Value(r)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode dispatches on the report format.
func Encode[T any](format model.ReportFormat, records []T, columns []Column[T]) ([]byte, string, error) {
	switch format {
	case model.FormatCSV:
		data, err := CSV(records, columns)
		return data, ContentTypeCSV, err
	case model.FormatJSON:
		data, err := JSON(records)
		return data, ContentTypeJSON, err
	default:
		return nil, "", fmt.Errorf("export: %w %q", model.ErrInvalidFormat, format)
	}
}

func date(t time.Time) string { return t.UTC().Format("2006-01-02") }

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

var BatchColumns = []Column[model.Batch]{
	{"id", func(b model.Batch) string { return b.ID }},
	{"farmerId", func(b model.Batch) string { return b.FarmerID }},
	{"farmName", func(b model.Batch) string { return b.FarmName }},
	{"harvestDate", func(b model.Batch) string { return date(b.HarvestDate) }},
	{"region", func(b model.Batch) string { return b.Location.Region }},
	{"country", func(b model.Batch) string { return b.Location.Country }},
	{"quantity", func(b model.Batch) string { return ftoa(b.Quantity) }},
	{"grade", func(b model.Batch) string { return b.Quality.Grade }},
	{"forcedLaborStatus", func(b model.Batch) string { return string(b.ComplianceStatus.ForcedLaborVerification.Status) }},
	{"currentCustodian", func(b model.Batch) string { return b.CurrentCustodian }},
	{"sustainabilityScore", func(b model.Batch) string { return itoa(b.SustainabilityScore) }},
}

var ComplianceColumns = []Column[model.ComplianceBatch]{
	{"batchId", func(c model.ComplianceBatch) string { return c.BatchID }},
	{"origin", func(c model.ComplianceBatch) string { return c.Origin.Location }},
	{"country", func(c model.ComplianceBatch) string { return c.Origin.Country }},
	{"processingDate", func(c model.ComplianceBatch) string { return date(c.ProcessingDate) }},
	{"sustainabilityScore", func(c model.ComplianceBatch) string { return itoa(c.SustainabilityScore) }},
	{"certificationStatus", func(c model.ComplianceBatch) string { return string(c.CertificationStatus) }},
	{"grade", func(c model.ComplianceBatch) string { return c.QualityParameters.Grade }},
	{"actionStatus", func(c model.ComplianceBatch) string { return string(c.ActionStatus) }},
	{"lastUpdated", func(c model.ComplianceBatch) string { return c.LastUpdated.UTC().Format(time.RFC3339) }},
	{"updatedBy", func(c model.ComplianceBatch) string { return c.UpdatedBy }},
}

var IsotopeColumns = []Column[model.IsotopeRecord]{
	{"id", func(r model.IsotopeRecord) string { return r.ID }},
	{"batchId", func(r model.IsotopeRecord) string { return r.BatchID }},
	{"farmName", func(r model.IsotopeRecord) string { return r.FarmName }},
	{"region", func(r model.IsotopeRecord) string { return r.Location.Region }},
	{"testDate", func(r model.IsotopeRecord) string { return date(r.TestDate) }},
	{"carbon", func(r model.IsotopeRecord) string { return strconv.FormatFloat(r.Isotopes.Carbon, 'f', 2, 64) }},
	{"nitrogen", func(r model.IsotopeRecord) string { return strconv.FormatFloat(r.Isotopes.Nitrogen, 'f', 2, 64) }},
	{"oxygen", func(r model.IsotopeRecord) string { return strconv.FormatFloat(r.Isotopes.Oxygen, 'f', 2, 64) }},
	{"hydrogen", func(r model.IsotopeRecord) string { return strconv.FormatFloat(r.Isotopes.Hydrogen, 'f', 2, 64) }},
	{"verificationStatus", func(r model.IsotopeRecord) string { return string(r.VerificationStatus) }},
	{"confidenceScore", func(r model.IsotopeRecord) string { return itoa(r.ConfidenceScore) }},
	{"testingFacility", func(r model.IsotopeRecord) string { return r.TestingFacility }},
}

var VerificationColumns = []Column[model.VerificationRequest]{
	{"id", func(v model.VerificationRequest) string { return v.ID }},
	{"submissionDate", func(v model.VerificationRequest) string { return date(v.SubmissionDate) }},
	{"companyName", func(v model.VerificationRequest) string { return v.CompanyName }},
	{"documentType", func(v model.VerificationRequest) string { return v.DocumentType }},
	{"status", func(v model.VerificationRequest) string { return string(v.Status) }},
	{"priority", func(v model.VerificationRequest) string { return string(v.Priority) }},
	{"assignedAuditor", func(v model.VerificationRequest) string { return v.AssignedAuditor }},
	{"timeInQueue", func(v model.VerificationRequest) string { return itoa(v.TimeInQueue) }},
}
