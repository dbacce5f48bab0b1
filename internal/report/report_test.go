package report_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pnl-forecast/internal/report"
)

const sampleReport = `{
  "Header": {
    "ReportName": "ProfitAndLoss",
    "StartPeriod": "2024-01-01",
    "EndPeriod": "2024-03-31",
    "ReportBasis": "Accrual",
    "Currency": "USD"
  },
  "Columns": {
    "Column": [
      {"ColTitle": "", "ColType": "Account"},
      {"ColTitle": "Jan 2024", "ColType": "Money"},
      {"ColTitle": "Total", "ColType": "Total"}
    ]
  },
  "Rows": {
    "Row": [
      {
        "type": "Section",
        "group": "Income",
        "Rows": {
          "Row": [
            {"type": "Data", "ColData": [{"value": "Sales", "id": "42"}, {"value": "1,000.00"}, {"value": "1,000.00"}]}
          ]
        },
        "Summary": {
          "ColData": [{"value": "Total Income"}, {"value": "1,000.00"}, {"value": "1,000.00"}]
        }
      }
    ]
  }
}`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0600))

	r, err := report.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ProfitAndLoss", r.Header.ReportName)
	assert.Equal(t, "2024-01-01", r.Header.StartPeriod)
	assert.Equal(t, "USD", r.Header.Currency)

	require.Len(t, r.Columns.Column, 3)
	assert.Equal(t, report.ColTypeTotal, r.Columns.Column[2].ColType)

	require.Len(t, r.Rows.Row, 1)
	section := r.Rows.Row[0]
	assert.Equal(t, report.GroupIncome, section.Group)
	require.NotNil(t, section.Rows)
	require.Len(t, section.Rows.Row, 1)

	data := section.Rows.Row[0]
	assert.Equal(t, report.RowTypeData, data.Type)
	require.Len(t, data.ColData, 3)
	assert.Equal(t, "Sales", data.ColData[0].Value)
	assert.Equal(t, "42", data.ColData[0].ID)

	require.NotNil(t, section.Summary)
	assert.Equal(t, "Total Income", section.Summary.ColData[0].Value)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := report.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading report file")
}

func TestLoadFileMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := report.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding report JSON")
}
