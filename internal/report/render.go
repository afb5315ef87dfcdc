package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/nifimon/internal/domain"
	"github.com/vburojevic/nifimon/internal/output"
)

// maxMessage bounds the last-bulletin column
const maxMessage = 60

// RenderText writes a header block and a table of groups
func RenderText(w io.Writer, rep *domain.LogReport) error {
	if _, err := fmt.Fprintf(w, "%s\n", output.Styles.Header.Render("Report for "+rep.File)); err != nil {
		return err
	}
	if !rep.WindowStart.IsZero() {
		if _, err := fmt.Fprintf(w, "%s %s to %s (%s)\n",
			output.Styles.Label.Render("Window:"),
			rep.WindowStart.Format(time.RFC3339),
			rep.WindowEnd.Format(time.RFC3339),
			rep.WindowEnd.Sub(rep.WindowStart).Round(time.Second)); err != nil {
			return err
		}
	}
	failures := rep.FetchFailures+rep.ProjectionFailures > 0
	if _, err := fmt.Fprintf(w, "%s %s\n", output.Styles.Label.Render("Status:"), output.StatusText(failures, rep.HasErrors)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s %d  %s %d  %s %d  %s %d\n\n",
		output.Styles.Label.Render("Passes:"), rep.Passes,
		output.Styles.Label.Render("Records:"), rep.Records,
		output.Styles.Label.Render("Fetch failures:"), rep.FetchFailures,
		output.Styles.Label.Render("Projection failures:"), rep.ProjectionFailures); err != nil {
		return err
	}

	if len(rep.Groups) == 0 {
		_, err := fmt.Fprintln(w, "No process group records found")
		return err
	}

	rows := make([][]string, 0, len(rep.Groups))
	for _, g := range rep.Groups {
		errCount := strconv.Itoa(g.ErrorCount)
		if g.ErrorCount > 0 {
			errCount = output.Styles.Error.Render(errCount)
		}
		rows = append(rows, []string{
			output.Styles.Group.Render(g.Name),
			g.ID,
			strconv.Itoa(g.RunningCount),
			strconv.Itoa(g.StoppedCount),
			strconv.Itoa(g.InvalidCount),
			strconv.FormatInt(g.FlowFilesQueued, 10),
			strconv.Itoa(g.BulletinCount),
			errCount,
			lastBulletin(g),
		})
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "ID", "Running", "Stopped", "Invalid", "Queued", "Bulletins", "Errors", "Last bulletin")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// lastBulletin prefers the newest ERROR message over later, milder bulletins.
func lastBulletin(g domain.GroupSummary) string {
	level, msg := g.LastBulletinLevel, g.LastBulletin
	if g.LastError != "" {
		level, msg = "ERROR", g.LastError
	}
	if msg == "" {
		return ""
	}
	return output.LevelStyle(level).Render(level) + " " + truncate(msg, maxMessage)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
