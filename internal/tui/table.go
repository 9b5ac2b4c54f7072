package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/metarh/vagas/internal/model"
	"github.com/metarh/vagas/internal/normalize"
)

const titleWidth = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	remoteStyle = cellStyle.Foreground(lipgloss.Color("42"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// JobTable renders jobs as a bordered table, one row per job.
func JobTable(jobs []model.NormalizedJob) string {
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{
			j.ID,
			normalize.Truncate(j.Title, titleWidth),
			location(j),
			j.Department,
			j.ContractType,
			published(j.PublishedAt),
			remoteMark(j.Remote),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "Title", "Location", "Department", "Contract", "Published", "Remote").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 6 && row >= 0 && row < len(jobs) && jobs[row].Remote:
				return remoteStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}

func location(j model.NormalizedJob) string {
	if j.State == "" {
		return j.City
	}
	return j.City + " - " + j.State
}

// published keeps the date part of an ISO timestamp.
func published(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}

func remoteMark(remote bool) string {
	if remote {
		return "yes"
	}
	return ""
}
