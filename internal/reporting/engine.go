// Package reporting aggregates customer visit records into revenue reports.
//
// Compute is a pure function: it never touches storage, and callers are
// expected to hand it a snapshot already narrowed to the query's date range.
// Records outside the range or not matching the service filter are ignored
// anyway, so a wider snapshot yields the same report.
package reporting

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"salon_crm_backend/internal/models"
)

// DateLayout is the date-only format used by report queries and the daily series.
const DateLayout = "2006-01-02"

// AllServices is the service filter value meaning "no filter".
const AllServices = "all"

// DefaultMaxDays caps the daily series when no limit is configured.
const DefaultMaxDays = 1830

// Query errors wrap models.ErrValidation.
var (
	ErrInvalidRange       = fmt.Errorf("%w: start date and end date are required in YYYY-MM-DD format", models.ErrValidation)
	ErrInvalidPeriod      = fmt.Errorf("%w: period must be one of daily, weekly, monthly", models.ErrValidation)
	ErrInvalidAttribution = fmt.Errorf("%w: service attribution must be one of full, split", models.ErrValidation)
)

// Query describes a report request after parsing.
type Query struct {
	Start         time.Time // midnight of the first day, in Location
	End           time.Time // midnight of the last day, in Location
	ServiceFilter string    // empty means all services
	Period        models.ReportPeriod
	Attribution   models.ServiceAttribution
	Location      *time.Location
	MaxDays       int // zero means DefaultMaxDays
}

// ParseQuery validates raw request parameters. Dates are interpreted as
// calendar days in loc. Ranges wider than maxDays days are rejected; a
// non-positive maxDays means DefaultMaxDays.
func ParseQuery(params models.ReportRequestParams, loc *time.Location, attribution models.ServiceAttribution, maxDays int) (Query, error) {
	if loc == nil {
		loc = time.Local
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	start, err := parseDay(params.StartDate, loc)
	if err != nil {
		return Query{}, fmt.Errorf("%w: start_date %q", ErrInvalidRange, params.StartDate)
	}
	end, err := parseDay(params.EndDate, loc)
	if err != nil {
		return Query{}, fmt.Errorf("%w: end_date %q", ErrInvalidRange, params.EndDate)
	}
	period, err := ParsePeriod(params.Period)
	if err != nil {
		return Query{}, err
	}
	attr, err := ParseAttribution(string(attribution))
	if err != nil {
		return Query{}, err
	}
	q := Query{
		Start:         start,
		End:           end,
		ServiceFilter: NormalizeServiceFilter(params.ServiceFilter),
		Period:        period,
		Attribution:   attr,
		Location:      loc,
		MaxDays:       maxDays,
	}
	if err := q.checkSpan(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// ParsePeriod accepts daily, weekly or monthly; empty defaults to daily.
func ParsePeriod(s string) (models.ReportPeriod, error) {
	switch p := models.ReportPeriod(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return models.PeriodDaily, nil
	case models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly:
		return p, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidPeriod, s)
	}
}

// ParseAttribution accepts full or split; empty defaults to full.
func ParseAttribution(s string) (models.ServiceAttribution, error) {
	switch a := models.ServiceAttribution(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return models.AttributionFull, nil
	case models.AttributionFull, models.AttributionSplit:
		return a, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidAttribution, s)
	}
}

// NormalizeServiceFilter maps "" and "all" (any case) to the empty filter.
func NormalizeServiceFilter(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AllServices) {
		return ""
	}
	return s
}

func parseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidRange
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

func (q Query) location() *time.Location {
	if q.Location == nil {
		return time.Local
	}
	return q.Location
}

// EndExclusive is midnight after the last day of the range.
func (q Query) EndExclusive() time.Time {
	return startOfDay(q.End, q.location()).AddDate(0, 0, 1)
}

// checkSpan rejects ranges covering more than MaxDays calendar days.
func (q Query) checkSpan() error {
	if q.IsEmptyRange() {
		return nil
	}
	limit := q.MaxDays
	if limit <= 0 {
		limit = DefaultMaxDays
	}
	loc := q.location()
	last := startOfDay(q.Start, loc).AddDate(0, 0, limit-1)
	if startOfDay(q.End, loc).After(last) {
		return fmt.Errorf("%w: range is longer than %d days", ErrInvalidRange, limit)
	}
	return nil
}

// IsEmptyRange reports whether the range ends before it starts.
func (q Query) IsEmptyRange() bool {
	return startOfDay(q.Start, q.location()).After(startOfDay(q.End, q.location()))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// bucket accumulates a count and amounts for a single breakdown key.
type bucket struct {
	key        string
	count      int
	amount     float64
	discounted float64
}

// accumulator keeps buckets in first-encounter order.
type accumulator struct {
	index   map[string]int
	buckets []bucket
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

func (a *accumulator) add(key string, amount, discounted float64) {
	i, ok := a.index[key]
	if !ok {
		i = len(a.buckets)
		a.index[key] = i
		a.buckets = append(a.buckets, bucket{key: key})
	}
	a.buckets[i].count++
	a.buckets[i].amount += amount
	a.buckets[i].discounted += discounted
}

// sorted returns the buckets by amount, highest first. Ties keep encounter order.
func (a *accumulator) sorted() []bucket {
	out := slices.Clone(a.buckets)
	slices.SortStableFunc(out, func(x, y bucket) int {
		switch {
		case x.amount > y.amount:
			return -1
		case x.amount < y.amount:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Compute builds the report for q over records.
func Compute(records []models.Customer, q Query) (*models.Report, error) {
	if err := q.checkSpan(); err != nil {
		return nil, err
	}
	loc := q.location()
	start := startOfDay(q.Start, loc)
	end := startOfDay(q.End, loc)

	report := &models.Report{
		StartDate:            start.Format(DateLayout),
		EndDate:              end.Format(DateLayout),
		Period:               q.Period,
		ServiceFilter:        q.ServiceFilter,
		ServiceBreakdown:     []models.ServiceBreakdownItem{},
		StaffBreakdown:       []models.StaffBreakdownItem{},
		PaymentTypeBreakdown: []models.PaymentTypeBreakdownItem{},
		DailyData:            []models.DailyDataPoint{},
	}
	if report.Period == "" {
		report.Period = models.PeriodDaily
	}
	if q.IsEmptyRange() {
		return report, nil
	}

	dayIndex := make(map[string]int)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(DateLayout)
		dayIndex[key] = len(report.DailyData)
		report.DailyData = append(report.DailyData, models.DailyDataPoint{Date: key})
	}

	endExclusive := q.EndExclusive()
	services := newAccumulator()
	staff := newAccumulator()
	payments := newAccumulator()

	for _, rec := range records {
		visit := rec.VisitDate.In(loc)
		if visit.Before(start) || !visit.Before(endExclusive) {
			continue
		}
		if q.ServiceFilter != "" && !rec.HasService(q.ServiceFilter) {
			continue
		}

		amount := rec.Amount
		discounted := rec.FinalAmount()
		report.TotalAmount += amount
		report.TotalDiscountedAmount += discounted
		report.TotalCustomers++

		serviceAmount, serviceDiscounted := amount, discounted
		if q.Attribution == models.AttributionSplit && len(rec.Services) > 0 {
			n := float64(len(rec.Services))
			serviceAmount, serviceDiscounted = amount/n, discounted/n
		}
		for _, svc := range rec.Services {
			if q.ServiceFilter != "" && svc != q.ServiceFilter {
				continue
			}
			services.add(svc, serviceAmount, serviceDiscounted)
		}
		for _, name := range rec.ServiceTakenBy {
			staff.add(name, amount, discounted)
		}
		payments.add(string(rec.PaymentType), amount, discounted)

		if i, ok := dayIndex[visit.Format(DateLayout)]; ok {
			report.DailyData[i].Amount += amount
			report.DailyData[i].DiscountedAmount += discounted
			report.DailyData[i].Customers++
		}
	}

	if report.TotalCustomers > 0 {
		report.AverageAmount = report.TotalAmount / float64(report.TotalCustomers)
	}
	for _, b := range services.sorted() {
		report.ServiceBreakdown = append(report.ServiceBreakdown, models.ServiceBreakdownItem{
			Service: b.key, Count: b.count, Amount: b.amount, DiscountedAmount: b.discounted,
		})
	}
	for _, b := range staff.sorted() {
		report.StaffBreakdown = append(report.StaffBreakdown, models.StaffBreakdownItem{
			Staff: b.key, Count: b.count, Amount: b.amount, DiscountedAmount: b.discounted,
		})
	}
	for _, b := range payments.sorted() {
		report.PaymentTypeBreakdown = append(report.PaymentTypeBreakdown, models.PaymentTypeBreakdownItem{
			Type: models.PaymentType(b.key), Count: b.count, Amount: b.amount, DiscountedAmount: b.discounted,
		})
	}
	return report, nil
}
