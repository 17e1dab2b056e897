package dataset

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// RequestTypes is the fixed request-type vocabulary used by generated data.
var RequestTypes = []string{
	"Document Verification",
	"Grade Change Request",
	"Enrollment Request",
	"Financial Aid Application",
	"Transcript Request",
	"Degree Audit",
	"Schedule Adjustment",
	"Permission Override",
	"Scholarship Application",
	"Academic Appeal",
}

// Departments is the fixed department list; department ids start at 101 in this order.
var Departments = []string{
	"Registrar",
	"Finance",
	"Admissions",
	"Academic Affairs",
	"Student Services",
	"Human Resources",
	"IT Support",
}

const firstDepartmentID = 101

type weighted struct {
	value  string
	weight float64
}

var statusWeights = []weighted{
	{models.StatusApproved, 0.45},
	{models.StatusRejected, 0.15},
	{models.StatusResolved, 0.30},
	{models.StatusPending, 0.10},
}

var priorityWeights = []weighted{
	{models.PriorityCritical, 0.10},
	{models.PriorityHigh, 0.25},
	{models.PriorityMedium, 0.45},
	{models.PriorityLow, 0.20},
}

// SampleConfig controls the generator. Zero values mean 250 requests, 5 admins, time.Now and an
// unseeded random source.
type SampleConfig struct {
	Now      time.Time
	Rand     *rand.Rand
	Requests int
	Admins   int
}

func (c SampleConfig) withDefaults() SampleConfig {
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Requests <= 0 {
		c.Requests = 250
	}
	if c.Admins <= 0 {
		c.Admins = 5
	}
	return c
}

type generator struct {
	now time.Time
	rnd *rand.Rand
}

// GenerateSampleData builds a synthetic bundle tagged sample. Dates fall within the six months
// before cfg.Now, biased toward Monday-Thursday mornings.
func GenerateSampleData(cfg SampleConfig) *models.Bundle {
	cfg = cfg.withDefaults()
	g := &generator{now: cfg.Now, rnd: cfg.Rand}

	requests := make([]models.Request, 0, cfg.Requests)
	for i := 1; i <= cfg.Requests; i++ {
		requests = append(requests, g.request(i, cfg.Admins))
	}

	admins := make([]models.Admin, 0, cfg.Admins)
	for i := 1; i <= cfg.Admins; i++ {
		deptIndex := g.intn(0, len(Departments)-1)
		role := "Admin"
		if i == 1 {
			role = "Senior Admin"
		}
		admins = append(admins, models.Admin{
			AdminID:         i,
			Name:            fmt.Sprintf("Admin %d", i),
			Email:           fmt.Sprintf("admin%d@silverleaf.edu", i),
			DepartmentID:    firstDepartmentID + deptIndex,
			DepartmentName:  Departments[deptIndex],
			Role:            role,
			HourlyRate:      float64(g.intn(20, 35)),
			ExperienceYears: g.intn(1, 10),
			Specialization:  RequestTypes[g.intn(0, len(RequestTypes)-1)],
			AvgTasksPerDay:  float64(g.intn(5, 20)),
			EfficiencyScore: float64(int((g.rnd.Float64()*2+3)*100)) / 100,
		})
	}

	departments := make([]models.Department, 0, len(Departments))
	for i, name := range Departments {
		total := 0
		for _, r := range requests {
			if r.DepartmentName == name {
				total++
			}
		}
		departments = append(departments, models.Department{
			DepartmentID:   firstDepartmentID + i,
			DepartmentName: name,
			HeadCount:      g.intn(5, 25),
			TotalRequests:  total,
		})
	}

	requestTypes := RequestTypeRows(requests, RequestTypes)

	return &models.Bundle{
		Requests:     requests,
		Admins:       admins,
		Departments:  departments,
		RequestTypes: requestTypes,
		WorkloadLog:  []models.Row{},
		DailySummary: []models.Row{},
		Source:       models.SourceSample,
		LoadedAt:     cfg.Now,
	}
}

// RequestTypeRows aggregates requests into request_types rows (type_name, total_count,
// avg_processing_time). names fixes the row order and keeps zero-count types; when nil, types
// appear in first-seen order.
func RequestTypeRows(requests []models.Request, names []string) []models.Row {
	counts := make(map[string]int)
	minutes := make(map[string]float64)
	seen := make([]string, 0)
	for _, r := range requests {
		if _, ok := counts[r.RequestType]; !ok {
			seen = append(seen, r.RequestType)
		}
		counts[r.RequestType]++
		minutes[r.RequestType] += r.ProcessingTimeMinutes
	}
	if names == nil {
		names = seen
	}

	rows := make([]models.Row, 0, len(names))
	for _, name := range names {
		avg := 0.0
		if n := counts[name]; n > 0 {
			avg = float64(int(minutes[name]/float64(n)*100+0.5)) / 100
		}
		rows = append(rows, models.Row{
			"type_name":           name,
			"total_count":         strconv.Itoa(counts[name]),
			"avg_processing_time": FormatNumber(avg),
		})
	}
	return rows
}

func (g *generator) request(id, admins int) models.Request {
	created := g.biasedDate()
	processing := g.intn(20, 100)
	deptIndex := g.intn(0, len(Departments)-1)
	requestType := RequestTypes[g.intn(0, len(RequestTypes)-1)]
	status := g.pick(statusWeights)
	priority := g.pick(priorityWeights)
	adminID := g.intn(1, admins)

	errorCount := 0
	if status == models.StatusRejected {
		errorCount = g.intn(1, 3)
	} else if g.rnd.Float64() > 0.8 {
		errorCount = 1
	}
	complexity := g.intn(1, 10)

	req := models.Request{
		RequestID:             id,
		RequestNumber:         fmt.Sprintf("REQ-%05d", id),
		StudentID:             g.intn(1000, 9999),
		RequestType:           requestType,
		DepartmentID:          firstDepartmentID + deptIndex,
		DepartmentName:        Departments[deptIndex],
		Priority:              priority,
		Status:                status,
		CreatedAt:             models.NewTimestamp(created),
		ProcessingTimeMinutes: float64(processing),
		EstimatedTimeMinutes:  float64(processing + g.intn(-10, 10)),
		AssignedAdminID:       adminID,
		AssignedAdminName:     fmt.Sprintf("Admin %d", adminID),
		ErrorCount:            errorCount,
		ComplexityScore:       float64(complexity),
		ManualStepsCount:      g.intn(3, 15),
		RequiresManualReview:  complexity > 6 || priority == models.PriorityCritical,
	}
	if status != models.StatusPending {
		req.ResolvedAt = models.NewTimestamp(created.Add(time.Duration(processing) * time.Minute))
	}
	return req
}

// biasedDate draws a moment in the last six months, snapped 70% of the time to Mon-Thu of the
// same week and 60% of the time to 9-11 AM.
func (g *generator) biasedDate() time.Time {
	from := g.now.AddDate(0, -6, 0)
	span := g.now.Sub(from)
	date := from.Add(time.Duration(g.rnd.Int63n(int64(span) + 1)))

	if g.rnd.Float64() > 0.3 {
		target := g.intn(1, 4)
		date = date.AddDate(0, 0, target-int(date.Weekday()))
	}
	hour := g.intn(8, 17)
	if g.rnd.Float64() > 0.4 {
		hour = g.intn(9, 11)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, g.intn(0, 59), 0, 0, date.Location())
}

func (g *generator) pick(weights []weighted) string {
	draw := g.rnd.Float64()
	sum := 0.0
	for _, w := range weights {
		sum += w.weight
		if draw <= sum {
			return w.value
		}
	}
	return weights[0].value
}

// intn returns a uniform integer in [lo, hi].
func (g *generator) intn(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}
