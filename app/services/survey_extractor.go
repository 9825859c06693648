package services

import (
	"strconv"
	"strings"

	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

// Section markers found in column A of the sheet. A marker is a section header
// that applies to every row below it until the next marker.
const (
	markerWWFLed       = "wwf"
	markerVolunteerLed = "volunteer"
)

// Field prefixes inside a survey header cell. Matching is case-sensitive after
// trimming each line.
const (
	prefixDate     = "Date:"
	prefixLocation = "Location:"
	prefixTime     = "Time:"
)

// The participant scan below a header stops after this many consecutive rows
// contribute no participant, so a single blank separator row does not truncate
// the roster.
const participantBlankRunLimit = 2

// SurveyExtractor scans a cell grid for surveys using the sheet's positional
// and textual conventions: category markers in column A, "Date:" header cells
// in columns B onward, and participant rosters below each header.
type SurveyExtractor struct{}

func NewSurveyExtractor() *SurveyExtractor {
	return &SurveyExtractor{}
}

// Extract walks the grid top-to-bottom and returns the surveys it finds,
// grouped by category in encounter order. Rows seen before any category marker
// contribute nothing. Fully empty extractions are discarded silently; sparse
// template sheets routinely contain empty survey slots.
func (e *SurveyExtractor) Extract(rows [][]string) map[models.SurveyCategory][]models.SurveyRecord {
	out := map[models.SurveyCategory][]models.SurveyRecord{
		models.CategoryWWFLed:       {},
		models.CategoryVolunteerLed: {},
	}

	var category models.SurveyCategory
	for rowIdx := range rows {
		marker := strings.ToLower(strings.TrimSpace(CellAt(rows, rowIdx, 0)))
		switch {
		case strings.Contains(marker, markerWWFLed):
			category = models.CategoryWWFLed
		case strings.Contains(marker, markerVolunteerLed):
			category = models.CategoryVolunteerLed
		}
		if category == "" {
			continue
		}

		for colIdx := 1; colIdx < len(rows[rowIdx]); colIdx++ {
			cell := CellAt(rows, rowIdx, colIdx)
			if !strings.Contains(cell, prefixDate) {
				continue
			}
			record := parseHeaderCell(cell)
			record.Participants = collectParticipants(rows, rowIdx+1, colIdx)
			if record.IsEmpty() {
				continue
			}
			out[category] = append(out[category], record)
		}
	}

	return out
}

// parseHeaderCell splits a (possibly multi-line) header blob and extracts the
// date, location, and time fields. A missing prefix leaves that field empty.
func parseHeaderCell(cell string) models.SurveyRecord {
	record := models.SurveyRecord{Participants: []string{}}
	for _, line := range strings.Split(cell, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, prefixDate):
			record.Date = strings.TrimSpace(strings.TrimPrefix(line, prefixDate))
		case strings.HasPrefix(line, prefixLocation):
			record.Location = strings.TrimSpace(strings.TrimPrefix(line, prefixLocation))
		case strings.HasPrefix(line, prefixTime):
			record.Time = strings.TrimSpace(strings.TrimPrefix(line, prefixTime))
		}
	}
	return record
}

// collectParticipants scans downward from startRow. A row contributes a
// participant when the cell in the header's column parses as a number and the
// cell one column to the right is non-empty. The scan terminates after two
// consecutive non-contributing rows.
func collectParticipants(rows [][]string, startRow, col int) []string {
	participants := []string{}
	blankRun := 0
	for rowIdx := startRow; rowIdx < len(rows); rowIdx++ {
		index := strings.TrimSpace(CellAt(rows, rowIdx, col))
		name := strings.TrimSpace(CellAt(rows, rowIdx, col+1))
		if isNumeric(index) && name != "" {
			participants = append(participants, name)
			blankRun = 0
			continue
		}
		blankRun++
		if blankRun >= participantBlankRunLimit {
			break
		}
	}
	return participants
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
