// internal/app/system/csvexport/csvexport.go

// Package csvexport renders the faculty collection as CSV in the two
// shapes the admin dashboard offers: a detailed export with one row per
// sub-record, and a flat one-row-per-faculty summary.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/facultyhub/internal/domain/models"
)

// notSet is the display value for unset classification fields in the
// summary export.
const notSet = "Not set"

// DetailedFilename returns the download filename for the detailed
// export, dated to the given time.
func DetailedFilename(now time.Time) string {
	return fmt.Sprintf("faculty_research_data_%s.csv", now.Format("2006-01-02"))
}

// SummaryFilename returns the download filename for the summary export.
func SummaryFilename(now time.Time) string {
	return fmt.Sprintf("faculty_research_summary_%s.csv", now.Format("2006-01-02"))
}

// detailedHeader is the column layout of the detailed export: faculty
// identity first, then one column group per sub-collection.
var detailedHeader = []string{
	"Name", "Email", "Department", "Status", "Specialization",
	"Degree", "Field", "Institution", "Education Year",
	"Engagement Title", "Engagement Role", "Engagement Year",
	"Publication Title", "Journal", "Publication Year", "Link",
	"Research Title", "Research Year", "Research Type", "Research Status", "Funding Agency",
}

// WriteDetailed writes the detailed export. Each faculty member yields
// one row per sub-record index, up to the longest of the four
// collections; a profile with no sub-records still yields one row.
// Faculty-level fields appear only on the member's first row. Every
// field is quoted and embedded quotes are doubled, which is why this
// uses a hand-rolled row writer instead of encoding/csv (the latter
// quotes only when required).
func WriteDetailed(w io.Writer, profiles []models.FacultyProfile) error {
	if err := writeQuotedRow(w, detailedHeader); err != nil {
		return err
	}

	for i := range profiles {
		p := &profiles[i]

		rows := maxInt(len(p.Education), len(p.ResearchEngagements),
			len(p.ResearchPublications), len(p.ResearchTitles))
		if rows == 0 {
			rows = 1
		}

		for r := 0; r < rows; r++ {
			row := make([]string, 0, len(detailedHeader))

			if r == 0 {
				row = append(row, p.Name, p.Email, string(p.Department), string(p.Status), p.Specialization)
			} else {
				row = append(row, "", "", "", "", "")
			}

			if r < len(p.Education) {
				e := p.Education[r]
				row = append(row, e.Degree, e.Field, e.Institution, e.Year)
			} else {
				row = append(row, "", "", "", "")
			}

			if r < len(p.ResearchEngagements) {
				e := p.ResearchEngagements[r]
				row = append(row, e.Title, e.Role, e.Year)
			} else {
				row = append(row, "", "", "")
			}

			if r < len(p.ResearchPublications) {
				pub := p.ResearchPublications[r]
				row = append(row, pub.Title, pub.Journal, pub.Year, pub.Link)
			} else {
				row = append(row, "", "", "", "")
			}

			if r < len(p.ResearchTitles) {
				t := p.ResearchTitles[r]
				row = append(row, t.Title, t.Year, t.Type, t.Status, t.FundingAgency)
			} else {
				row = append(row, "", "", "", "", "")
			}

			if err := writeQuotedRow(w, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeQuotedRow emits one CSV row with every field quoted and embedded
// quotes doubled, terminated by CRLF like the summary export.
func writeQuotedRow(w io.Writer, fields []string) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary writes the flat one-row-per-faculty export: identity,
// classification (with "Not set" fallbacks), and the three collection
// counts plus their sum.
func WriteSummary(w io.Writer, profiles []models.FacultyProfile) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	header := []string{
		"Name", "Email", "Department", "Status", "Specialization",
		"Research Publications", "Research Engagements", "Research Titles", "Total Research Count",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range profiles {
		p := &profiles[i]
		pubs := len(p.ResearchPublications)
		engs := len(p.ResearchEngagements)
		titles := len(p.ResearchTitles)
		if err := cw.Write([]string{
			sanitizeField(p.Name),
			p.Email,
			orNotSet(string(p.Department)),
			orNotSet(string(p.Status)),
			orNotSet(sanitizeField(p.Specialization)),
			strconv.Itoa(pubs),
			strconv.Itoa(engs),
			strconv.Itoa(titles),
			strconv.Itoa(pubs + engs + titles),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func orNotSet(s string) string {
	if s == "" {
		return notSet
	}
	return s
}

// sanitizeField prevents CSV formula injection in free-text fields.
func sanitizeField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

func maxInt(vals ...int) int {
	m := 0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
