// Package mockdata produces deterministic sample collections for the
// in-memory stores.
package mockdata

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
)

type region struct {
	name     string
	lat, lng float64
	rules    []string
}

var (
	regions = []region{
		{"Mississippi", 33.40, -88.51, []string{"Water Conservation", "Pesticide Regulations"}},
		{"Texas", 33.58, -101.85, []string{"Groundwater Permits", "Pesticide Regulations"}},
		{"California", 36.74, -119.79, []string{"Water Conservation", "Air Quality"}},
		{"Arizona", 32.88, -111.76, []string{"Water Conservation"}},
		{"Georgia", 31.45, -83.51, []string{"Pesticide Regulations", "Soil Conservation"}},
	}
	farmNames = []string{
		"Sunshine Organic Farms",
		"Green Valley Cotton",
		"Delta Cotton Cooperative",
		"Western Cotton Growers",
		"Heartland Farms",
		"Blue Sky Organics",
		"Golden State Cotton",
		"Southern Harvest Co-op",
		"Prairie Cotton Fields",
		"Mountain View Farms",
	}
	gins = []string{"Delta Valley Gin Co.", "Lubbock Gin Works", "San Joaquin Ginning", "Pinal County Gin"}
	testingFacilities = []string{
		"FibreTrace Analytics Lab",
		"Global Cotton Testing Center",
		"Isotope Research Institute",
	}
	custodians = []string{"Regional Distribution Center", "Texas Processing Center", "Gulf Coast Spinning Mill", "Carolina Textile Works"}
	officers   = []string{"John Smith", "Sarah Johnson", "Michael Brown"}
	issues     = []string{"Documentation incomplete", "Isotope verification pending", "Labor standards verification needed"}
	colors     = []string{"White", "Light Spotted", "Spotted"}
	verifiers  = []string{"Labor Standards International", "Fair Fiber Audit Group"}
	harvesters = []string{"John Deere CP690", "John Deere CS770", "Case IH Module Express 635"}
	varieties  = []string{"DP 2211 B3TXF TR", "ST 5091B3XF", "PHY 400 W3FE"}
)

var (
	carbonRange   = model.Range{Min: -28, Max: -22}
	nitrogenRange = model.Range{Min: 2, Max: 8}
	oxygenRange   = model.Range{Min: 10, Max: 20}
	hydrogenRange = model.Range{Min: -120, Max: -80}

	// ReferenceValues are the laboratory acceptance ranges for each ratio.
	ReferenceValues = model.IsotopeReferences{
		Carbon:   model.Range{Min: -29, Max: -21},
		Nitrogen: model.Range{Min: 1, Max: 9},
		Oxygen:   model.Range{Min: 8, Max: 22},
		Hydrogen: model.Range{Min: -125, Max: -75},
	}
)

const day = 24 * time.Hour

// Generator is seeded so repeated loads produce the same collections.
// It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

func New(seed uint64, now time.Time) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x5eed)),
		now: now.UTC(),
	}
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

func (g *Generator) between(r model.Range) float64 {
	return r.Min + g.rng.Float64()*(r.Max-r.Min)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// weightedStatus picks verified most of the time.
func (g *Generator) weightedStatus() model.VerificationStatus {
	switch n := g.rng.IntN(10); {
	case n < 7:
		return model.VerificationVerified
	case n < 9:
		return model.VerificationPending
	default:
		return model.VerificationFailed
	}
}

// Batches returns n valid batches with harvest dates in 2024.
func (g *Generator) Batches(n int) []model.Batch {
	out := make([]model.Batch, 0, n)
	for i := range n {
		out = append(out, g.batch(i))
	}
	return out
}

func (g *Generator) batch(i int) model.Batch {
	reg := regions[g.rng.IntN(len(regions))]
	farmIdx := g.rng.IntN(len(farmNames))
	farm := farmNames[farmIdx]
	harvest := time.Date(2024, time.Month(g.rng.IntN(12)+1), g.rng.IntN(28)+1, 8+g.rng.IntN(8), 0, 0, 0, time.UTC)
	moduleID := fmt.Sprintf("%011d", 23400000000+int64(i)*100000+g.rng.Int64N(100000))
	lat := reg.lat + g.rng.Float64() - 0.5
	lng := reg.lng + g.rng.Float64() - 0.5
	elevation := float64(50 + g.rng.IntN(900))

	quantity := round(3000+g.rng.Float64()*3000, 2)
	quality := model.QualityMetrics{
		Grade:        model.Grades[g.rng.IntN(len(model.Grades))],
		FiberLength:  round(1.0+g.rng.Float64()*0.25, 2),
		Strength:     round(26+g.rng.Float64()*6, 1),
		Micronaire:   round(3.5+g.rng.Float64()*1.5, 1),
		Color:        g.pick(colors),
		TrashContent: round(g.rng.Float64()*2, 1),
	}

	bales := make([]model.Bale, 4)
	for b := range bales {
		bales[b] = model.Bale{
			BaleNo:     fmt.Sprintf("%d", 1112840+i*10+b),
			Weight:     float64(465 + g.rng.IntN(30)),
			Micronaire: quality.Micronaire,
			Strength:   quality.Strength,
			Length:     quality.FiberLength,
		}
	}

	entry := harvest.Add(day + time.Hour)
	exit := entry.Add(31 * time.Hour)
	labor := g.weightedStatus()
	organic := g.weightedStatus()

	certs := g.certifications(i, harvest)
	b := model.Batch{
		ID:          "MODULE-" + moduleID,
		HarvestID:   fmt.Sprintf("HARV-2024-%03d", i+1),
		FarmerID:    fmt.Sprintf("FARM-%03d", farmIdx+1),
		FarmName:    farm,
		HarvestDate: harvest,
		Location: model.GeoLocation{
			Latitude:  round(lat, 6),
			Longitude: round(lng, 6),
			Elevation: &elevation,
			Region:    reg.name,
			Country:   "USA",
		},
		FieldBoundaries: []model.GeoPoint{
			{Latitude: round(lat, 4), Longitude: round(lng, 4)},
			{Latitude: round(lat+0.001, 4), Longitude: round(lng, 4)},
			{Latitude: round(lat+0.001, 4), Longitude: round(lng+0.001, 4)},
			{Latitude: round(lat, 4), Longitude: round(lng+0.001, 4)},
		},
		Quantity:       quantity,
		Quality:        quality,
		Certifications: certs,
		EquipmentData: model.EquipmentData{
			ClientName:     "Cotton Industries LLC",
			FarmName:       farm,
			FieldName:      fmt.Sprintf("Field %c%d", 'A'+rune(g.rng.IntN(6)), 1+g.rng.IntN(20)),
			HarvesterID:    fmt.Sprintf("1N0C690PLK%07d", g.rng.IntN(9999999)),
			HarvesterModel: g.pick(harvesters),
			OperatorID:     fmt.Sprintf("OP-%03d", 1+g.rng.IntN(40)),
			OperatorName:   g.pick(officers),
			CottonVariety:  g.pick(varieties),
			Location:       model.GeoPoint{Latitude: round(lat, 6), Longitude: round(lng, 6)},
			GMTDateTime:    harvest.Add(7 * time.Hour),
			FieldArea:      model.Measure{Value: round(100+g.rng.Float64()*500, 1), Unit: "acres"},
			ModuleID:       moduleID,
			Bales:          bales,
		},
		GinData: model.GinData{
			GinID:        fmt.Sprintf("GIN-%03d-2024", 1+g.rng.IntN(len(gins))),
			FacilityName: g.pick(gins),
			EntryDate:    entry,
			ExitDate:     exit,
			ProductionDetails: model.GinProduction{
				FiberBaleProductionDate: exit.Add(-2 * time.Hour),
				FiberBaleID:             fmt.Sprintf("FB-2024-%04d", 1000+i),
				BaleWeight:              480,
				ModuleWeight:            quantity,
				FieldTotalCotton:        float64(len(bales)),
			},
			QualityMetrics: model.GinQuality{
				MoistureContent:    round(5+g.rng.Float64()*3, 1),
				TrashContent:       round(1+g.rng.Float64()*2, 1),
				USDAClassification: "Strict Middling",
				USDASortCategory:   fmt.Sprintf("Color Grade %d", 21+g.rng.IntN(20)),
			},
			MoisturePercentage: round(5+g.rng.Float64()*3, 1),
		},
		ComplianceStatus: model.ComplianceStatus{
			ForcedLaborVerification: model.ForcedLaborVerification{
				Status:   labor,
				Verifier: g.pick(verifiers),
			},
			OrganicStatus: model.OrganicStatus{Status: organic},
			RegionalCompliance: []model.RegionalCompliance{
				{Region: reg.name, Status: regionalFor(labor), Requirements: reg.rules},
				{Region: "USA", Status: model.RegionalCompliant, Requirements: []string{"Fair Labor Standards Act"}},
			},
		},
		CurrentCustodian:    farm,
		SustainabilityScore: 60 + g.rng.IntN(40),
	}

	if labor != model.VerificationPending {
		verified := harvest.Add(-day)
		b.ComplianceStatus.ForcedLaborVerification.VerificationDate = &verified
		b.ComplianceStatus.ForcedLaborVerification.Documents = []string{
			fmt.Sprintf("https://example.com/documents/labor-verification-%03d.pdf", i+1),
		}
	}
	for _, c := range certs {
		if c.Type == model.CertOrganic {
			b.ComplianceStatus.OrganicStatus.CertificationID = c.ID
		}
	}
	if g.rng.IntN(3) > 0 {
		b.BlockchainTokenID = g.hex(40)
		marked := harvest.Add(30 * day)
		b.IsotopeMarking = &model.IsotopeMarking{
			ID:                 fmt.Sprintf("ISO-%03d", i+1),
			MarkingDate:        marked,
			MarkingType:        "Stable Isotope",
			VerificationStatus: g.weightedStatus(),
		}
	}

	at := harvest.Add(9 * time.Hour)
	from := farm
	for range 1 + g.rng.IntN(3) {
		to := g.pick(custodians)
		// at only moves forward, so the chain cannot go out of order.
		_ = b.AppendCustody(model.CustodyEvent{
			Timestamp:               at,
			FromEntity:              from,
			ToEntity:                to,
			Location:                model.GeoLocation{Latitude: b.Location.Latitude, Longitude: b.Location.Longitude, Region: reg.name, Country: "USA"},
			TransportMethod:         "Truck",
			VerificationMethod:      "Digital Signature",
			BlockchainTransactionID: g.hex(64),
		})
		from = to
		at = at.Add(time.Duration(1+g.rng.IntN(5)) * day)
	}
	return b
}

func regionalFor(labor model.VerificationStatus) model.RegionalStatus {
	switch labor {
	case model.VerificationVerified:
		return model.RegionalCompliant
	case model.VerificationFailed:
		return model.RegionalNonCompliant
	default:
		return model.RegionalPending
	}
}

var certTemplates = []struct {
	name, issuer string
	typ          model.CertificationType
}{
	{"Organic Cotton Certification", "Global Organic Textile Standard", model.CertOrganic},
	{"Better Cotton Standard", "Better Cotton Initiative", model.CertSustainable},
	{"Fairtrade Cotton", "Fairtrade International", model.CertFairTrade},
	{"Forced Labor Free Attestation", "Labor Standards International", model.CertLaborCompliant},
	{"Regenerative Agriculture Pilot", "Regenagri", model.CertOther},
}

func (g *Generator) certifications(i int, harvest time.Time) []model.Certification {
	n := g.rng.IntN(3)
	out := make([]model.Certification, 0, n)
	for j, k := range g.rng.Perm(len(certTemplates))[:n] {
		t := certTemplates[k]
		issued := harvest.AddDate(-1, 0, -g.rng.IntN(180))
		expiry := issued.AddDate(2, 0, 0)
		c := model.Certification{
			ID:         fmt.Sprintf("CERT-%03d-%d", i+1, j+1),
			Name:       t.name,
			Issuer:     t.issuer,
			IssueDate:  issued,
			ExpiryDate: expiry,
			Status:     model.CertificationActive,
			Type:       t.typ,
		}
		c.DocumentURL = fmt.Sprintf("https://example.com/certificates/%s.pdf", c.ID)
		c.Status = c.EffectiveStatus(g.now)
		out = append(out, c)
	}
	return out
}

func (g *Generator) hex(n int) string {
	const digits = "0123456789abcdef"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = digits[g.rng.IntN(len(digits))]
	}
	return "0x" + string(buf)
}

// ComplianceBatches derives one compliance record per batch with a
// random status history of one to five entries, newest first.
func (g *Generator) ComplianceBatches(batches []model.Batch) []model.ComplianceBatch {
	out := make([]model.ComplianceBatch, 0, len(batches))
	for _, b := range batches {
		cb := model.ComplianceBatch{
			ID:      "comp-" + b.ID,
			BatchID: b.ID,
			Origin: model.Origin{
				Location:    b.Location.Region,
				Country:     b.Location.Country,
				Coordinates: [2]float64{b.Location.Latitude, b.Location.Longitude},
			},
			ProcessingDate:      b.HarvestDate.Add(time.Duration(g.rng.Int64N(int64(7 * day)))),
			SustainabilityScore: b.SustainabilityScore,
			CertificationStatus: b.ComplianceStatus.ForcedLaborVerification.Status,
			QualityParameters:   b.Quality,
			ActionStatus:        model.ActionHold,
			LastUpdated:         b.HarvestDate,
			UpdatedBy:           "System",
		}

		entries := 1 + g.rng.IntN(5)
		for e := range entries {
			status := model.ActionHold
			if g.rng.Float64() > 0.5 {
				status = model.ActionApproved
			}
			entry := model.StatusEntry{
				ID:        fmt.Sprintf("%s-h%d", cb.ID, e+1),
				Timestamp: b.HarvestDate.AddDate(0, 0, e*3),
				Status:    status,
				UpdatedBy: g.pick(officers),
			}
			if g.rng.Float64() > 0.7 {
				entry.Note = "Routine verification completed"
			}
			cb.SetStatus(entry)
		}

		if cb.ActionStatus == model.ActionHold {
			for _, issue := range issues {
				if g.rng.Float64() > 0.5 {
					cb.PendingIssues = append(cb.PendingIssues, issue)
				}
			}
		}
		summary := "All verifications complete."
		if len(cb.PendingIssues) > 0 {
			summary = "There are pending verification issues."
		}
		cb.ComplianceNotes = fmt.Sprintf("Batch %s from %s has been processed according to standard protocols. %s", b.ID, b.FarmName, summary)
		out = append(out, cb)
	}
	return out
}

// IsotopeRecords returns n isotope tests. The first fifteen are never
// failed.
func (g *Generator) IsotopeRecords(n int) []model.IsotopeRecord {
	out := make([]model.IsotopeRecord, 0, n)
	for i := range n {
		harvest := time.Date(2023, time.Month(g.rng.IntN(12)+1), g.rng.IntN(28)+1, 0, 0, 0, 0, time.UTC)
		reg := regions[g.rng.IntN(len(regions))]
		statuses := 3
		if i < 15 {
			statuses = 2
		}
		out = append(out, model.IsotopeRecord{
			ID:          fmt.Sprintf("ISOTOPE-%03d", i+1),
			BatchID:     fmt.Sprintf("BATCH-%03d", i+1),
			FarmName:    g.pick(farmNames),
			HarvestDate: harvest,
			Location: model.GeoLocation{
				Latitude:  30 + g.rng.Float64()*10,
				Longitude: -120 + g.rng.Float64()*30,
				Region:    reg.name,
				Country:   "USA",
			},
			Isotopes: model.Isotopes{
				Carbon:   g.between(carbonRange),
				Nitrogen: g.between(nitrogenRange),
				Oxygen:   g.between(oxygenRange),
				Hydrogen: g.between(hydrogenRange),
			},
			ReferenceValues:    ReferenceValues,
			VerificationStatus: model.VerificationStatuses[g.rng.IntN(statuses)],
			ConfidenceScore:    70 + g.rng.IntN(30),
			TestingFacility:    g.pick(testingFacilities),
			TestDate:           harvest.Add(5 * day),
			LastUpdated:        g.now.Add(-time.Duration(g.rng.Int64N(int64(10 * day)))),
		})
	}
	return out
}
