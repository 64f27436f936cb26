package models

// ExportRow is the flat shape of a customer record in CSV and Excel exports.
type ExportRow struct {
	Name           string  `csv:"Name"`
	Contact        string  `csv:"Contact"`
	Email          string  `csv:"Email"`
	Services       string  `csv:"Services"`
	ServiceTakenBy string  `csv:"ServiceTakenBy"`
	Amount         float64 `csv:"Amount"`
	Discount       float64 `csv:"Discount"`
	FinalAmount    float64 `csv:"FinalAmount"`
	PaymentType    string  `csv:"PaymentType"`
	VisitDate      string  `csv:"VisitDate"`
	Notes          string  `csv:"Notes"`
}

// ExportColumns is the header order shared by every export format.
var ExportColumns = []string{
	"Name", "Contact", "Email", "Services", "ServiceTakenBy", "Amount",
	"Discount", "FinalAmount", "PaymentType", "VisitDate", "Notes",
}

// ImportRowError describes why a single imported row was rejected.
type ImportRowError struct {
	Row   int    `json:"row"` // 1-based data row, header excluded
	Error string `json:"error"`
}

// ImportResult summarizes an import run. Rows missing a name or contact are
// counted as skipped and never submitted.
type ImportResult struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

// UploadResult is returned after a photo upload.
type UploadResult struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
