package models

// ReportPeriod is the granularity the dashboard asked for.
type ReportPeriod string

const (
	PeriodDaily   ReportPeriod = "daily"
	PeriodWeekly  ReportPeriod = "weekly"
	PeriodMonthly ReportPeriod = "monthly"
)

// ServiceAttribution controls how a multi-service visit's amount is credited
// to service buckets.
type ServiceAttribution string

const (
	// AttributionFull credits the whole amount to every service on the visit.
	AttributionFull ServiceAttribution = "full"
	// AttributionSplit divides the amount evenly across the visit's services.
	AttributionSplit ServiceAttribution = "split"
)

// ServiceBreakdownItem is revenue attributed to a single service.
type ServiceBreakdownItem struct {
	Service          string  `json:"service"`
	Count            int     `json:"count"`
	Amount           float64 `json:"amount"`
	DiscountedAmount float64 `json:"discounted_amount"`
}

// StaffBreakdownItem is revenue attributed to a single staff name.
type StaffBreakdownItem struct {
	Staff            string  `json:"staff"`
	Count            int     `json:"count"`
	Amount           float64 `json:"amount"`
	DiscountedAmount float64 `json:"discounted_amount"`
}

// PaymentTypeBreakdownItem is revenue per payment method.
type PaymentTypeBreakdownItem struct {
	Type             PaymentType `json:"type"`
	Count            int         `json:"count"`
	Amount           float64     `json:"amount"`
	DiscountedAmount float64     `json:"discounted_amount"`
}

// DailyDataPoint is one calendar day of the revenue trend.
type DailyDataPoint struct {
	Date             string  `json:"date"` // YYYY-MM-DD
	Amount           float64 `json:"amount"`
	DiscountedAmount float64 `json:"discounted_amount"`
	Customers        int     `json:"customers"`
}

// Report is the revenue dashboard for a date range. Totals use the raw
// pre-discount amount; the discounted_* fields carry the post-discount figures.
type Report struct {
	StartDate             string                     `json:"start_date"`
	EndDate               string                     `json:"end_date"`
	Period                ReportPeriod               `json:"period"`
	ServiceFilter         string                     `json:"service_filter,omitempty"`
	TotalAmount           float64                    `json:"total_amount"`
	TotalDiscountedAmount float64                    `json:"total_discounted_amount"`
	TotalCustomers        int                        `json:"total_customers"`
	AverageAmount         float64                    `json:"average_amount"`
	ServiceBreakdown      []ServiceBreakdownItem     `json:"service_breakdown"`
	StaffBreakdown        []StaffBreakdownItem       `json:"staff_breakdown"`
	PaymentTypeBreakdown  []PaymentTypeBreakdownItem `json:"payment_type_breakdown"`
	DailyData             []DailyDataPoint           `json:"daily_data"`
}

// ReportRequestParams holds the query parameters of a report request.
type ReportRequestParams struct {
	StartDate     string `form:"start_date"`     // YYYY-MM-DD
	EndDate       string `form:"end_date"`       // YYYY-MM-DD
	Period        string `form:"period"`         // daily, weekly, monthly
	ServiceFilter string `form:"service_filter"` // service name or "all"
}
