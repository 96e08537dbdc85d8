// Package export renders administrative spreadsheets.
package export

import (
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

const thesesSheet = "Theses"

var thesesHeader = []string{
	"Thesis ID", "Title", "Status", "Student No.", "Student", "Primary supervisor", "Sessions", "Last updated",
}

// ThesesWorkbook holds an XLSX workbook with one row per thesis.
type ThesesWorkbook struct {
	File *excelize.File
}

// NewThesesWorkbook lays rows out under a bold, filterable header.
func NewThesesWorkbook(rows []model.ThesisExportRow) (*ThesesWorkbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", thesesSheet); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}

	if err := f.SetSheetRow(thesesSheet, "A1", &thesesHeader); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	end, _ := excelize.CoordinatesToCellName(len(thesesHeader), 1)
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "header style")
	}
	_ = f.SetCellStyle(thesesSheet, "A1", end, bold)
	_ = f.AutoFilter(thesesSheet, "A1:"+end, nil)
	_ = f.SetPanes(thesesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	widths := make([]int, len(thesesHeader))
	for i, h := range thesesHeader {
		widths[i] = len(h)
	}
	for i, r := range rows {
		values := []interface{}{
			r.ThesisID,
			r.Title,
			string(r.Status),
			r.StudentNumber,
			r.StudentName,
			r.PrimaryLecturer.String,
			r.SessionCount,
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(thesesSheet, cell, &values); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+2)
		}
		if i < 50 {
			for c, v := range values {
				if l := len(cellText(v)); l > widths[c] {
					widths[c] = l
				}
			}
		}
	}
	for c, w := range widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(thesesSheet, col, col, clampWidth(w))
	}
	return &ThesesWorkbook{File: f}, nil
}

// WriteTo streams the workbook to w.
func (w *ThesesWorkbook) WriteTo(out io.Writer) (int64, error) {
	n, err := w.File.WriteTo(out)
	return n, errors.Wrap(err, "write workbook")
}

func (w *ThesesWorkbook) Close() error { return w.File.Close() }

// FileName is the suggested download name for an export taken at t.
func FileName(t time.Time) string {
	return "theses_" + t.UTC().Format("2006-01-02") + ".xlsx"
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case uint64:
		return strconv.FormatUint(x, 10)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return ""
}

func clampWidth(n int) float64 {
	w := float64(n) * 0.9
	if w < 12 {
		w = 12
	}
	if w > 40 {
		w = 40
	}
	return w
}
