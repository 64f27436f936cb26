package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cast"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"
)

// ExportDateLayout is the visit date format in exported files.
const ExportDateLayout = "01/02/2006"

// ExportSheetName is the worksheet written by Excel exports.
const ExportSheetName = "Customers"

// ExportFormat selects the exported file type.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

var (
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported file format, use csv or xlsx", models.ErrValidation)
	ErrUnreadableFile    = fmt.Errorf("%w: could not read the uploaded file", models.ErrValidation)
)

// ParseExportFormat accepts csv or xlsx (any case); empty defaults to csv.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrUnsupportedFormat, s)
	}
}

// ContentType is the MIME type served for f.
func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Canonical import field names.
const (
	fieldName           = "name"
	fieldContact        = "contact"
	fieldEmail          = "email"
	fieldServices       = "services"
	fieldServiceTakenBy = "service_taken_by"
	fieldAmount         = "amount"
	fieldDiscount       = "discount"
	fieldPaymentType    = "payment_type"
	fieldVisitDate      = "visit_date"
	fieldNotes          = "notes"
)

// columnAliases maps normalized header names to canonical fields.
var columnAliases = map[string]string{
	"name":           fieldName,
	"contact":        fieldContact,
	"phone":          fieldContact,
	"mobile":         fieldContact,
	"email":          fieldEmail,
	"services":       fieldServices,
	"service":        fieldServices,
	"servicetakenby": fieldServiceTakenBy,
	"performedby":    fieldServiceTakenBy,
	"staff":          fieldServiceTakenBy,
	"amount":         fieldAmount,
	"discount":       fieldDiscount,
	"paymenttype":    fieldPaymentType,
	"payment":        fieldPaymentType,
	"paymentmethod":  fieldPaymentType,
	"visitdate":      fieldVisitDate,
	"date":           fieldVisitDate,
	"notes":          fieldNotes,
	"note":           fieldNotes,
}

var headerReplacer = strings.NewReplacer(" ", "", "_", "", "-", "", "\ufeff", "")

// canonicalColumn resolves a header cell to a field name, or "" for unknown columns.
func canonicalColumn(header string) string {
	return columnAliases[headerReplacer.Replace(strings.ToLower(strings.TrimSpace(header)))]
}

// ImportExportService converts customer records to and from CSV and Excel files.
type ImportExportService interface {
	Export(ctx context.Context, format ExportFormat, w io.Writer) error
	Import(ctx context.Context, filename string, r io.Reader) (*models.ImportResult, error)
	WriteTemplate(w io.Writer) error
}

type importExportService struct {
	repo      repositories.CustomerRepository
	customers CustomerService
	location  *time.Location
}

// NewImportExportService creates an ImportExportService. Imported rows are
// created through customers so they get the same validation as the API.
func NewImportExportService(repo repositories.CustomerRepository, customers CustomerService, loc *time.Location) ImportExportService {
	if loc == nil {
		loc = time.Local
	}
	return &importExportService{repo: repo, customers: customers, location: loc}
}

// ToExportRow flattens a customer into an export row.
func ToExportRow(c models.Customer, loc *time.Location) models.ExportRow {
	return models.ExportRow{
		Name:           c.Name,
		Contact:        c.Contact,
		Email:          utils.DerefString(c.Email),
		Services:       utils.ListToCell(c.Services),
		ServiceTakenBy: utils.ListToCell(c.ServiceTakenBy),
		Amount:         c.Amount,
		Discount:       c.Discount,
		FinalAmount:    c.FinalAmount(),
		PaymentType:    string(c.PaymentType),
		VisitDate:      c.VisitDate.In(loc).Format(ExportDateLayout),
		Notes:          utils.DerefString(c.Notes),
	}
}

func (s *importExportService) Export(ctx context.Context, format ExportFormat, w io.Writer) error {
	customers, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers for export: %w", err)
	}
	rows := make([]models.ExportRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, ToExportRow(c, s.location))
	}

	switch format {
	case FormatCSV:
		if err := gocsv.Marshal(&rows, w); err != nil {
			return fmt.Errorf("failed to write csv export: %w", err)
		}
		return nil
	case FormatXLSX:
		return writeWorkbook(rows, w)
	default:
		return fmt.Errorf("%w: got %q", ErrUnsupportedFormat, format)
	}
}

func writeWorkbook(rows []models.ExportRow, w io.Writer) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", ExportSheetName)
	for col, header := range models.ExportColumns {
		f.SetCellValue(ExportSheetName, excelize.ToAlphaString(col)+"1", header)
	}
	for i, row := range rows {
		values := []interface{}{
			row.Name, row.Contact, row.Email, row.Services, row.ServiceTakenBy, row.Amount,
			row.Discount, row.FinalAmount, row.PaymentType, row.VisitDate, row.Notes,
		}
		line := fmt.Sprint(i + 2)
		for col, v := range values {
			f.SetCellValue(ExportSheetName, excelize.ToAlphaString(col)+line, v)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx export: %w", err)
	}
	return nil
}

// WriteTemplate writes a CSV with the export header and one example row.
func (s *importExportService) WriteTemplate(w io.Writer) error {
	example := []models.ExportRow{{
		Name:           "Jane Doe",
		Contact:        "9876543210",
		Email:          "jane@example.com",
		Services:       utils.ListToCell([]string{"Hair Cut", "Facial"}),
		ServiceTakenBy: "Priya Sharma",
		Amount:         1500,
		Discount:       10,
		FinalAmount:    models.FinalAmount(1500, 10),
		PaymentType:    string(models.PaymentUPI),
		VisitDate:      "01/15/2024",
		Notes:          "First visit",
	}}
	return gocsv.Marshal(&example, w)
}

// Import reads rows from a .csv or .xlsx file and creates one customer per row.
// Rows are processed in order; a cancelled ctx stops the run and the partial
// result is returned together with the context error.
func (s *importExportService) Import(ctx context.Context, filename string, r io.Reader) (*models.ImportResult, error) {
	var (
		records []importRow
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readWorkbook(r)
	default:
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	result := &models.ImportResult{Errors: []models.ImportRowError{}}
	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rowNum := i + 1
		if raw.err != nil {
			utils.LogWarn("Import row unreadable", map[string]interface{}{"row": rowNum, "error": raw.err.Error()})
			result.Total++
			result.Failed++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Error: raw.err.Error()})
			continue
		}
		fields := normalizeRow(raw.fields)
		if isBlankRow(fields) {
			continue
		}
		result.Total++

		if fields[fieldName] == "" || fields[fieldContact] == "" {
			result.Skipped++
			continue
		}
		req, err := s.rowToRequest(fields)
		if err == nil {
			_, err = s.customers.CreateCustomer(ctx, req)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return result, ctxErr
			}
			utils.LogWarn("Import row rejected", map[string]interface{}{"row": rowNum, "error": err.Error()})
			result.Failed++
			result.Errors = append(result.Errors, models.ImportRowError{Row: rowNum, Error: err.Error()})
			continue
		}
		result.Success++
	}
	return result, nil
}

// importRow is one data line keyed by header. err is set when the line
// could not be parsed.
type importRow struct {
	fields map[string]string
	err    error
}

// readCSV accepts ragged lines and stray quotes. Short lines get empty
// values and extra cells are dropped. Only an unreadable header fails the file.
func readCSV(r io.Reader) ([]importRow, error) {
	reader := gocsv.LazyCSVReader(r)
	if cr, ok := reader.(*csv.Reader); ok {
		cr.FieldsPerRecord = -1
	}
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []importRow{}, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []importRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		switch {
		case err == nil:
			rows = append(rows, importRow{fields: keyByHeader(header, record)})
		case errors.As(err, &parseErr):
			rows = append(rows, importRow{err: err})
		default:
			return nil, err
		}
	}
	return rows, nil
}

func keyByHeader(header, record []string) map[string]string {
	m := make(map[string]string, len(header))
	for col, name := range header {
		if col < len(record) {
			m[name] = record[col]
		} else {
			m[name] = ""
		}
	}
	return m
}

// readWorkbook returns the first sheet as header-keyed rows.
func readWorkbook(r io.Reader) ([]importRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	sheets := f.GetSheetMap()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	indexes := make([]int, 0, len(sheets))
	for idx := range sheets {
		indexes = append(indexes, idx)
	}
	rows := f.GetRows(sheets[slices.Min(indexes)])
	if len(rows) == 0 {
		return []importRow{}, nil
	}

	header := rows[0]
	out := make([]importRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, importRow{fields: keyByHeader(header, row)})
	}
	return out, nil
}

// normalizeRow maps a header-keyed row onto canonical fields. When several
// columns alias the same field, the first non-empty value wins.
func normalizeRow(raw map[string]string) map[string]string {
	headers := make([]string, 0, len(raw))
	for h := range raw {
		headers = append(headers, h)
	}
	slices.Sort(headers)

	fields := make(map[string]string, len(columnAliases))
	for _, h := range headers {
		field := canonicalColumn(h)
		if field == "" {
			continue
		}
		if v := strings.TrimSpace(raw[h]); v != "" && fields[field] == "" {
			fields[field] = v
		}
	}
	return fields
}

func isBlankRow(fields map[string]string) bool {
	for _, v := range fields {
		if v != "" {
			return false
		}
	}
	return true
}

func parseNumber(field, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", models.ErrValidation, field, s)
	}
	return n, nil
}

func (s *importExportService) rowToRequest(fields map[string]string) (CreateCustomerRequest, error) {
	amount, err := parseNumber(fieldAmount, fields[fieldAmount])
	if err != nil {
		return CreateCustomerRequest{}, err
	}
	discount, err := parseNumber(fieldDiscount, fields[fieldDiscount])
	if err != nil {
		return CreateCustomerRequest{}, err
	}

	req := CreateCustomerRequest{
		Name:           fields[fieldName],
		Contact:        fields[fieldContact],
		Email:          utils.NewNullString(fields[fieldEmail]),
		Services:       utils.CellToList(fields[fieldServices]),
		ServiceTakenBy: models.NewStaffNames(utils.CellToList(fields[fieldServiceTakenBy])...),
		Amount:         amount,
		Discount:       discount,
		PaymentType:    strings.ToUpper(fields[fieldPaymentType]),
		Notes:          utils.NewNullString(fields[fieldNotes]),
	}
	if req.PaymentType == "" {
		req.PaymentType = string(models.PaymentCash)
	}
	if raw := fields[fieldVisitDate]; raw != "" {
		visit, err := dateparse.ParseIn(raw, s.location)
		if err != nil {
			return CreateCustomerRequest{}, fmt.Errorf("%w: visit date %q is not a recognizable date", models.ErrValidation, raw)
		}
		req.VisitDate = &visit
	}
	return req, nil
}
