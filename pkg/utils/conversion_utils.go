package utils

import "strings"

// ListSeparator joins multi-value cells in exports.
const ListSeparator = "; "

// ListToCell joins values into a single spreadsheet cell.
func ListToCell(values []string) string {
	return strings.Join(values, ListSeparator)
}

// CellToList splits a ";"-separated cell, trimming entries and dropping blanks.
func CellToList(cell string) []string {
	parts := strings.Split(cell, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
