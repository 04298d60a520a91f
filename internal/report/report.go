// Package report renders run summaries and persisted baselines as aligned
// plain-text tables. Property names and article titles are Japanese, so
// padding works on display width, not byte or rune count.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"tpowatch/internal/models"
)

// Table renders rows (first row is the header) as an aligned text table.
func Table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	// Calculate max widths using display width
	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			if j < colCount-1 {
				padding := colWidths[j] - runewidth.StringWidth(content)
				sb.WriteString(strings.Repeat(" ", padding+2))
			}
		}

		sb.WriteString("\n")
	}

	writeRow(rows[0])

	totalWidth := 0
	for _, w := range colWidths {
		totalWidth += w + 2
	}

	sb.WriteString(strings.Repeat("-", totalWidth-2))
	sb.WriteString("\n")

	for _, row := range rows[1:] {
		writeRow(row)
	}

	return sb.String()
}

// VacancyStateTable renders the persisted vacancy baseline, sorted by
// property id for stable output.
func VacancyStateTable(st *models.VacancyState) string {
	ids := make([]string, 0, len(st.Properties))
	for id := range st.Properties {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	rows := [][]string{{"ID", "WARD", "NAME", "VACANCIES", "LAST CHANGED"}}

	for _, id := range ids {
		obs := st.Properties[id]

		lastChanged := "-"
		if !obs.LastChanged.IsZero() {
			lastChanged = obs.LastChanged.Format("2006-01-02 15:04")
		}

		rows = append(rows, []string{
			id,
			obs.Ward,
			obs.Name,
			fmt.Sprintf("%d", obs.VacancyCount),
			lastChanged,
		})
	}

	return Table(rows)
}
