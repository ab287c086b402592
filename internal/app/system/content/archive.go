package content

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

// CalendarMonths is the span of the archive gallery.
const CalendarMonths = 36

// ParseArchive decodes the archive payload of an archive-bearing slug.
// Slugs outside the allow-list, blank payloads and invalid JSON all yield an
// empty (non-nil) archive.
func ParseArchive(slug, raw string) models.ArchiveData {
	data := models.ArchiveData{}
	if !models.IsArchiveSlug(slug) || strings.TrimSpace(raw) == "" {
		return data
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
		return models.ArchiveData{}
	}
	return data
}

// ValidateArchive reports whether raw is an acceptable payload: blank, or
// JSON in the archive shape.
func ValidateArchive(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var data models.ArchiveData
	return json.Unmarshal([]byte(raw), &data)
}

// EncodeArchive serializes data, dropping unpopulated entries and empty
// years. An archive with nothing populated encodes to "".
func EncodeArchive(data models.ArchiveData) (string, error) {
	clean := models.ArchiveData{}
	for year, months := range data {
		for month, e := range months {
			if !e.Populated() {
				continue
			}
			if clean[year] == nil {
				clean[year] = map[string]models.ArchiveEntry{}
			}
			clean[year][month] = e
		}
	}
	if len(clean) == 0 {
		return "", nil
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CalendarMonth is one cell of the archive gallery.
type CalendarMonth struct {
	Year      int
	Month     time.Month
	Entry     models.ArchiveEntry
	Populated bool
}

// CalendarYear groups gallery cells by year.
type CalendarYear struct {
	Year   int
	Months []CalendarMonth
}

// Calendar lays out the CalendarMonths months ending with now's month,
// newest year first and months ascending within a year.
func Calendar(data models.ArchiveData, now time.Time) []CalendarYear {
	byYear := map[int][]CalendarMonth{}
	cur := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < CalendarMonths; i++ {
		m := cur.AddDate(0, -i, 0)
		e := lookup(data, m.Year(), m.Month())
		byYear[m.Year()] = append(byYear[m.Year()], CalendarMonth{
			Year:      m.Year(),
			Month:     m.Month(),
			Entry:     e,
			Populated: e.Populated(),
		})
	}

	years := make([]CalendarYear, 0, len(byYear))
	for y, months := range byYear {
		sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
		years = append(years, CalendarYear{Year: y, Months: months})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year > years[j].Year })
	return years
}

// PopulatedCount returns how many cells of the calendar carry content.
func PopulatedCount(years []CalendarYear) int {
	n := 0
	for _, y := range years {
		for _, m := range y.Months {
			if m.Populated {
				n++
			}
		}
	}
	return n
}

// lookup accepts month keys with or without a leading zero.
func lookup(data models.ArchiveData, year int, month time.Month) models.ArchiveEntry {
	months, ok := data[strconv.Itoa(year)]
	if !ok {
		return models.ArchiveEntry{}
	}
	if e, ok := months[strconv.Itoa(int(month))]; ok {
		return e
	}
	if e, ok := months[twoDigits(int(month))]; ok {
		return e
	}
	return models.ArchiveEntry{}
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
