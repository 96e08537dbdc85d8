package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

func TestNewThesesWorkbook(t *testing.T) {
	updated := time.Date(2026, 4, 12, 8, 0, 0, 0, time.UTC)
	rows := []model.ThesisExportRow{
		{ThesisID: 1, Title: "Edge caching", Status: model.ThesisInProgress, StudentNumber: "2201001",
			StudentName: "Ayu", PrimaryLecturer: null.StringFrom("Dr. Budi"), SessionCount: 3, UpdatedAt: updated},
		{ThesisID: 2, Title: "Unsupervised", Status: model.ThesisProposal, StudentNumber: "2201002",
			StudentName: "Cahya", UpdatedAt: updated},
	}

	wb, err := NewThesesWorkbook(rows)
	require.NoError(t, err)
	defer wb.Close()

	var buf bytes.Buffer
	_, err = wb.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(thesesSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, thesesHeader, got[0])
	assert.Equal(t, []string{"1", "Edge caching", "IN_PROGRESS", "2201001", "Ayu", "Dr. Budi", "3", "2026-04-12T08:00:00Z"}, got[1])
	assert.Equal(t, "", cellAt(t, f, "F3"))
}

func TestNewThesesWorkbookEmpty(t *testing.T) {
	wb, err := NewThesesWorkbook(nil)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.File.GetRows(thesesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "theses_2026-10-19.xlsx", FileName(time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)))
}

func cellAt(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(thesesSheet, cell)
	require.NoError(t, err)
	return v
}
