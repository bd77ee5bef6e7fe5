package portal

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

const (
	courseColumn   = 2
	scheduleColumn = 3
	roomColumn     = 4
	minColumns     = 6

	unnamedCourse = "Tanpa Nama"
)

// sksSuffix matches the credit annotation, e.g. "Akuntansi Keuangan - 3 SKS (Wajib)".
var sksSuffix = regexp.MustCompile(`(?i)\s*-\s*\d+\s*sks.*$`)

// ParseSchedule extracts the rows of the "kuliah sekarang" table.
// A page without the table yields no rows and no error.
func ParseSchedule(r io.Reader) ([]model.RawScheduleEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.table-striped, table.table-borderless").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var entries []model.RawScheduleEntry

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.ChildrenFiltered("td")
		if cols.Length() < minColumns {
			return
		}

		entries = append(entries, model.RawScheduleEntry{
			CourseName:   courseName(cols.Eq(courseColumn)),
			ScheduleText: squash(cols.Eq(scheduleColumn).Text()),
			Room:         squash(cols.Eq(roomColumn).Text()),
		})
	})

	return entries, nil
}

// courseName takes the first line of the course cell (lines are split by <br>)
// and drops the SKS suffix.
func courseName(cell *goquery.Selection) string {
	var b strings.Builder
	cell.Contents().EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if goquery.NodeName(node) == "br" {
			return false
		}
		b.WriteString(node.Text())
		return true
	})

	name := sksSuffix.ReplaceAllString(squash(b.String()), "")
	name = strings.TrimSpace(name)
	if name == "" {
		return unnamedCourse
	}
	return name
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
