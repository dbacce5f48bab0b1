// Package report defines the input contract for the upstream accounting data
// source: a hierarchical profit-and-loss report with month columns and a
// recursive row tree. Fetching and authentication live outside this tool; a
// report arrives here as a JSON document on disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// Row type tags used by the source report.
const (
	RowTypeData    = "Data"
	RowTypeSection = "Section"
)

// Section group tags that switch the current section during the tree walk.
const (
	GroupIncome   = "Income"
	GroupExpenses = "Expenses"
)

// Column type for the trailing total column.
const ColTypeTotal = "Total"

// Report is the root document.
type Report struct {
	Header  Header  `json:"Header"`
	Columns Columns `json:"Columns"`
	Rows    Rows    `json:"Rows"`
}

// Header carries the report period bounds and accounting metadata.
type Header struct {
	ReportName  string `json:"ReportName"`
	StartPeriod string `json:"StartPeriod"`
	EndPeriod   string `json:"EndPeriod"`
	ReportBasis string `json:"ReportBasis"`
	Currency    string `json:"Currency"`
}

// Columns wraps the column list.
type Columns struct {
	Column []Column `json:"Column"`
}

// Column is one report column: a month label or the trailing "Total".
type Column struct {
	ColTitle string `json:"ColTitle"`
	ColType  string `json:"ColType"`
}

// Rows wraps a row list; used both at the root and for nested children.
type Rows struct {
	Row []Row `json:"Row"`
}

// Row is one node of the recursive row tree. A data row carries ColData;
// a section row carries a Header row, nested Rows, and a Summary subtotal.
type Row struct {
	Type    string    `json:"type"`
	Group   string    `json:"group,omitempty"`
	Header  *DataRow  `json:"Header,omitempty"`
	ColData []ColData `json:"ColData,omitempty"`
	Rows    *Rows     `json:"Rows,omitempty"`
	Summary *DataRow  `json:"Summary,omitempty"`
}

// DataRow is a flat list of cells (used for section headers and summaries).
type DataRow struct {
	ColData []ColData `json:"ColData"`
}

// ColData is a single report cell. The first cell of a data row is the
// account name; remaining cells are monthly values plus the total.
type ColData struct {
	Value string `json:"value"`
	ID    string `json:"id,omitempty"`
}

// LoadFile reads and decodes a report JSON document.
func LoadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("error reading report file: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("error decoding report JSON: %w", err)
	}
	return &r, nil
}
