package reporting

import (
	"testing"
	"time"

	"salon_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	require.NoError(t, err)
	return d
}

func visit(t *testing.T, date string, amount, discount float64, pay models.PaymentType, services []string, staff ...string) models.Customer {
	t.Helper()
	return models.Customer{
		Name:           "Customer",
		Contact:        "9876543210",
		VisitDate:      day(t, date).Add(10 * time.Hour),
		Amount:         amount,
		Discount:       discount,
		PaymentType:    pay,
		Services:       services,
		ServiceTakenBy: models.NewStaffNames(staff...),
	}
}

func query(t *testing.T, start, end string) Query {
	t.Helper()
	q, err := ParseQuery(models.ReportRequestParams{StartDate: start, EndDate: end}, time.UTC, models.AttributionFull, 0)
	require.NoError(t, err)
	return q
}

func TestCompute_TwoDayScenario(t *testing.T) {
	records := []models.Customer{
		visit(t, "2024-01-01", 100, 10, models.PaymentCash, []string{"Hair Cut"}),
		visit(t, "2024-01-02", 200, 0, models.PaymentUPI, []string{"Hair Cut", "Facial"}),
	}

	report, err := Compute(records, query(t, "2024-01-01", "2024-01-02"))
	require.NoError(t, err)

	assert.Equal(t, 300.0, report.TotalAmount)
	assert.Equal(t, 290.0, report.TotalDiscountedAmount)
	assert.Equal(t, 2, report.TotalCustomers)
	assert.Equal(t, 150.0, report.AverageAmount)

	assert.Equal(t, []models.ServiceBreakdownItem{
		{Service: "Hair Cut", Count: 2, Amount: 300, DiscountedAmount: 290},
		{Service: "Facial", Count: 1, Amount: 200, DiscountedAmount: 200},
	}, report.ServiceBreakdown)

	assert.Equal(t, []models.PaymentTypeBreakdownItem{
		{Type: models.PaymentUPI, Count: 1, Amount: 200, DiscountedAmount: 200},
		{Type: models.PaymentCash, Count: 1, Amount: 100, DiscountedAmount: 90},
	}, report.PaymentTypeBreakdown)

	assert.Equal(t, []models.DailyDataPoint{
		{Date: "2024-01-01", Amount: 100, DiscountedAmount: 90, Customers: 1},
		{Date: "2024-01-02", Amount: 200, DiscountedAmount: 200, Customers: 1},
	}, report.DailyData)
}

func TestCompute_EmptyRecords(t *testing.T) {
	report, err := Compute(nil, query(t, "2024-03-01", "2024-03-05"))
	require.NoError(t, err)

	assert.Zero(t, report.TotalAmount)
	assert.Zero(t, report.TotalCustomers)
	assert.Zero(t, report.AverageAmount)
	assert.Empty(t, report.ServiceBreakdown)
	assert.Empty(t, report.StaffBreakdown)
	assert.Empty(t, report.PaymentTypeBreakdown)
	require.Len(t, report.DailyData, 5)
	for _, p := range report.DailyData {
		assert.Zero(t, p.Amount)
		assert.Zero(t, p.Customers)
	}
	assert.Equal(t, "2024-03-01", report.DailyData[0].Date)
	assert.Equal(t, "2024-03-05", report.DailyData[4].Date)
}

func TestCompute_MultiServiceCountsFullAmountInEveryBucket(t *testing.T) {
	records := []models.Customer{
		visit(t, "2024-02-10", 100, 0, models.PaymentCard, []string{"A", "B"}),
	}
	report, err := Compute(records, query(t, "2024-02-10", "2024-02-10"))
	require.NoError(t, err)

	require.Len(t, report.ServiceBreakdown, 2)
	assert.Equal(t, 100.0, report.ServiceBreakdown[0].Amount)
	assert.Equal(t, 100.0, report.ServiceBreakdown[1].Amount)
	assert.Equal(t, 100.0, report.TotalAmount)
}

func TestCompute_SplitAttribution(t *testing.T) {
	records := []models.Customer{
		visit(t, "2024-02-10", 100, 0, models.PaymentCard, []string{"A", "B"}),
	}
	q := query(t, "2024-02-10", "2024-02-10")
	q.Attribution = models.AttributionSplit

	report, err := Compute(records, q)
	require.NoError(t, err)

	require.Len(t, report.ServiceBreakdown, 2)
	assert.Equal(t, 50.0, report.ServiceBreakdown[0].Amount)
	assert.Equal(t, 1, report.ServiceBreakdown[0].Count)
	assert.Equal(t, 50.0, report.ServiceBreakdown[1].Amount)
	assert.Equal(t, 100.0, report.TotalAmount)
}

func TestCompute_StaffBreakdown(t *testing.T) {
	records := []models.Customer{
		visit(t, "2024-05-01", 300, 0, models.PaymentCash, []string{"Facial"}, "Priya", "Sneha"),
		visit(t, "2024-05-01", 500, 0, models.PaymentCash, []string{"Hair Color"}, "Sneha"),
		visit(t, "2024-05-02", 80, 0, models.PaymentCash, []string{"Beard Trim"}),
	}
	report, err := Compute(records, query(t, "2024-05-01", "2024-05-02"))
	require.NoError(t, err)

	assert.Equal(t, []models.StaffBreakdownItem{
		{Staff: "Sneha", Count: 2, Amount: 800, DiscountedAmount: 800},
		{Staff: "Priya", Count: 1, Amount: 300, DiscountedAmount: 300},
	}, report.StaffBreakdown)
}

func TestCompute_TiesKeepEncounterOrder(t *testing.T) {
	records := []models.Customer{
		visit(t, "2024-05-01", 100, 0, models.PaymentCard, []string{"Manicure"}),
		visit(t, "2024-05-01", 100, 0, models.PaymentCash, []string{"Blow Dry"}),
		visit(t, "2024-05-01", 100, 0, models.PaymentUPI, []string{"Facial"}),
	}
	report, err := Compute(records, query(t, "2024-05-01", "2024-05-01"))
	require.NoError(t, err)

	var order []string
	for _, s := range report.ServiceBreakdown {
		order = append(order, s.Service)
	}
	assert.Equal(t, []string{"Manicure", "Blow Dry", "Facial"}, order)

	var payments []models.PaymentType
	for _, p := range report.PaymentTypeBreakdown {
		payments = append(payments, p.Type)
	}
	assert.Equal(t, []models.PaymentType{models.PaymentCard, models.PaymentCash, models.PaymentUPI}, payments)
}

func TestCompute_DailySeriesLength(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		period     string
		want       int
	}{
		{"single day daily", "2024-01-15", "2024-01-15", "daily", 1},
		{"single day weekly", "2024-01-15", "2024-01-15", "weekly", 1},
		{"single day monthly", "2024-01-15", "2024-01-15", "monthly", 1},
		{"one week", "2024-01-14", "2024-01-20", "weekly", 7},
		{"leap february", "2024-02-01", "2024-02-29", "monthly", 29},
		{"across year end", "2023-12-30", "2024-01-02", "daily", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(models.ReportRequestParams{StartDate: tt.start, EndDate: tt.end, Period: tt.period}, time.UTC, "", 0)
			require.NoError(t, err)
			report, err := Compute(nil, q)
			require.NoError(t, err)
			assert.Len(t, report.DailyData, tt.want)
		})
	}
}

func TestCompute_EndDayIsInclusive(t *testing.T) {
	late := visit(t, "2024-01-02", 50, 0, models.PaymentCash, []string{"Hair Cut"})
	late.VisitDate = day(t, "2024-01-02").Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	nextDay := visit(t, "2024-01-03", 70, 0, models.PaymentCash, []string{"Hair Cut"})
	nextDay.VisitDate = day(t, "2024-01-03")
	before := visit(t, "2023-12-31", 90, 0, models.PaymentCash, []string{"Hair Cut"})

	report, err := Compute([]models.Customer{late, nextDay, before}, query(t, "2024-01-01", "2024-01-02"))
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalCustomers)
	assert.Equal(t, 50.0, report.TotalAmount)
	assert.Equal(t, 1, report.DailyData[1].Customers)
}

func TestCompute_BucketsByLocalDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// 2024-01-01 20:00 UTC is 2024-01-02 01:30 in IST.
	rec := models.Customer{
		VisitDate:   time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC),
		Amount:      120,
		PaymentType: models.PaymentCash,
		Services:    []string{"Facial"},
	}
	q, err := ParseQuery(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "2024-01-02"}, loc, "", 0)
	require.NoError(t, err)

	report, err := Compute([]models.Customer{rec}, q)
	require.NoError(t, err)

	require.Len(t, report.DailyData, 2)
	assert.Zero(t, report.DailyData[0].Customers)
	assert.Equal(t, 1, report.DailyData[1].Customers)
}

func TestCompute_ServiceFilter(t *testing.T) {
	records := []models.Customer{
		visit(t, "2024-01-01", 100, 0, models.PaymentCash, []string{"Hair Cut"}),
		visit(t, "2024-01-01", 200, 0, models.PaymentUPI, []string{"Hair Cut", "Facial"}),
		visit(t, "2024-01-01", 400, 0, models.PaymentCard, []string{"Manicure"}),
	}
	q, err := ParseQuery(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "2024-01-01", ServiceFilter: "Facial"}, time.UTC, "", 0)
	require.NoError(t, err)

	report, err := Compute(records, q)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalCustomers)
	assert.Equal(t, 200.0, report.TotalAmount)
	assert.Equal(t, []models.ServiceBreakdownItem{
		{Service: "Facial", Count: 1, Amount: 200, DiscountedAmount: 200},
	}, report.ServiceBreakdown)
	assert.Equal(t, "Facial", report.ServiceFilter)
}

func TestCompute_StartAfterEndIsEmpty(t *testing.T) {
	records := []models.Customer{
		visit(t, "2024-01-03", 100, 0, models.PaymentCash, []string{"Hair Cut"}),
	}
	report, err := Compute(records, query(t, "2024-01-05", "2024-01-01"))
	require.NoError(t, err)

	assert.Zero(t, report.TotalCustomers)
	assert.Zero(t, report.AverageAmount)
	assert.Empty(t, report.DailyData)
	assert.NotNil(t, report.DailyData)
}

func TestCompute_RejectsOverlongRange(t *testing.T) {
	q := Query{Start: day(t, "2024-01-01"), End: day(t, "2024-01-10"), Location: time.UTC, MaxDays: 5}
	_, err := Compute(nil, q)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseQuery_MaxDays(t *testing.T) {
	t.Run("exactly at the limit", func(t *testing.T) {
		q, err := ParseQuery(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "2024-01-05"}, time.UTC, "", 5)
		require.NoError(t, err)
		report, err := Compute(nil, q)
		require.NoError(t, err)
		assert.Len(t, report.DailyData, 5)
	})
	t.Run("one day over", func(t *testing.T) {
		_, err := ParseQuery(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "2024-01-06"}, time.UTC, "", 5)
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
	t.Run("default limit rejects centuries", func(t *testing.T) {
		_, err := ParseQuery(models.ReportRequestParams{StartDate: "0002-01-01", EndDate: "9999-12-31"}, time.UTC, "", 0)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
	t.Run("reversed range is not capped", func(t *testing.T) {
		q, err := ParseQuery(models.ReportRequestParams{StartDate: "9999-12-31", EndDate: "0002-01-01"}, time.UTC, "", 5)
		require.NoError(t, err)
		assert.True(t, q.IsEmptyRange())
	})
}

func TestParseQuery_AcceptsFirstCalendarDay(t *testing.T) {
	q, err := ParseQuery(models.ReportRequestParams{StartDate: "0001-01-01", EndDate: "0001-01-02"}, time.UTC, "", 0)
	require.NoError(t, err)
	assert.True(t, q.Start.IsZero())

	report, err := Compute(nil, q)
	require.NoError(t, err)
	require.Len(t, report.DailyData, 2)
	assert.Equal(t, "0001-01-01", report.DailyData[0].Date)
}

func TestParseQuery(t *testing.T) {
	t.Run("missing start", func(t *testing.T) {
		_, err := ParseQuery(models.ReportRequestParams{EndDate: "2024-01-01"}, time.UTC, "", 0)
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
	t.Run("unparsable end", func(t *testing.T) {
		_, err := ParseQuery(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "01/02/2024"}, time.UTC, "", 0)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
	t.Run("bad period", func(t *testing.T) {
		_, err := ParseQuery(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "2024-01-02", Period: "hourly"}, time.UTC, "", 0)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
	t.Run("bad attribution", func(t *testing.T) {
		_, err := ParseQuery(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "2024-01-02"}, time.UTC, "weighted", 0)
		assert.ErrorIs(t, err, ErrInvalidAttribution)
	})
	t.Run("defaults", func(t *testing.T) {
		q, err := ParseQuery(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "2024-01-02", ServiceFilter: "ALL"}, time.UTC, "", 0)
		require.NoError(t, err)
		assert.Equal(t, models.PeriodDaily, q.Period)
		assert.Equal(t, models.AttributionFull, q.Attribution)
		assert.Empty(t, q.ServiceFilter)
		assert.Equal(t, day(t, "2024-01-03"), q.EndExclusive())
	})
}
