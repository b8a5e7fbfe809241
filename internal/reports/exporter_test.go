package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEventRows() []EventReportRow {
	return []EventReportRow{{
		ID:          1,
		Title:       "Farmers Market",
		EventDate:   time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EventTime:   "09:00",
		Location:    "Queens Park",
		Category:    "Community",
		Status:      "approved",
		SubmittedBy: "resident@example.org",
		CreatedAt:   time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC),
	}}
}

func TestExport_EventsCSV(t *testing.T) {
	e := NewReportExporter()

	content, filename, mimeType, err := e.Export(ReportTypeEvents, FormatCSV, ReportData{Events: sampleEventRows()})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "events_report_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	assert.Equal(t, "text/csv", mimeType)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,title,event_date,event_time,location,category,status,submitted_by,created_at", lines[0])
	assert.Contains(t, lines[1], "Farmers Market")
	assert.Contains(t, lines[1], "2026-06-01")
}

func TestExport_RSVPsCSV(t *testing.T) {
	e := NewReportExporter()
	rows := []RSVPReportRow{{
		EventID:   1,
		Title:     "Fun Run",
		EventDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		Attending: 12, NotAttending: 3, Maybe: 5, Total: 20,
	}}

	content, _, mimeType, err := e.Export(ReportTypeRSVPs, FormatCSV, ReportData{RSVPs: rows})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", mimeType)

	body := string(content)
	assert.Contains(t, body, "event_id,title,event_date,attending,not_attending,maybe,total")
	assert.Contains(t, body, "1,Fun Run,2026-06-01,12,3,5,20")
}

func TestExport_BinaryFormatsProduceOutput(t *testing.T) {
	e := NewReportExporter()
	data := ReportData{Events: sampleEventRows()}

	content, filename, mimeType, err := e.Export(ReportTypeEvents, FormatExcel, data)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	assert.Contains(t, mimeType, "spreadsheetml")

	content, filename, mimeType, err = e.Export(ReportTypeEvents, FormatPDF, data)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.Equal(t, "application/pdf", mimeType)
}

func TestExport_UnknownTypeAndFormat(t *testing.T) {
	e := NewReportExporter()

	_, _, _, err := e.Export("volunteers", FormatCSV, ReportData{})
	assert.Error(t, err)

	_, _, _, err = e.Export(ReportTypeEvents, "xml", ReportData{})
	assert.Error(t, err)
}
