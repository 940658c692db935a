package report

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

//go:generate templ generate

// HTML renders rep as a standalone fragment.
func HTML(rep Report, l Labels) templ.Component {
	return reportHTML(rep, l)
}

func studentLine(rep Report) string {
	return fmt.Sprintf("%s <%s>", rep.StudentName, rep.StudentEmail)
}

func completedISO(rep Report) string {
	return rep.Record.CompletedAt.UTC().Format("2006-01-02T15:04:05Z")
}

func completedDisplay(rep Report) string {
	return rep.Record.CompletedAt.Format(dateLayout)
}

func scoreLine(rep Report) string {
	return fmt.Sprintf("%d / %d (%d%%)", rep.Record.Score, rep.Record.MaxScore, rep.Record.Percentage())
}

func bandSlug(rep Report) string {
	return strings.ToLower(string(rep.Record.Band))
}
