// Package report summarizes monitor log files.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vburojevic/nifimon/internal/domain"
	"github.com/vburojevic/nifimon/internal/output"
)

// TimeLayout is how the sink writes line timestamps
const TimeLayout = "2006-01-02T15:04:05.000Z0700"

// Line is one parsed monitor log line
type Line struct {
	Time  time.Time
	Level string
	Body  gjson.Result
}

// ParseLine splits "{time} {level} {json}". It reports false for anything
// else, including lines written by other tools.
func ParseLine(raw string) (Line, bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), " ", 3)
	if len(parts) != 3 {
		return Line{}, false
	}
	ts, err := time.Parse(TimeLayout, parts[0])
	if err != nil {
		return Line{}, false
	}
	if !gjson.Valid(parts[2]) {
		return Line{}, false
	}
	body := gjson.Parse(parts[2])
	if !body.IsObject() {
		return Line{}, false
	}
	return Line{Time: ts, Level: parts[1], Body: body}, true
}

// Build reads a monitor log and aggregates it. Groups appear in the order
// they were first logged, each holding its most recent record.
func Build(r io.Reader, file string) (*domain.LogReport, error) {
	rep := domain.NewLogReport(file)
	rep.SchemaVersion = output.SchemaVersion
	index := map[string]int{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		rep.Lines++

		line, ok := ParseLine(raw)
		if !ok {
			rep.SkippedLines++
			continue
		}
		if rep.WindowStart.IsZero() || line.Time.Before(rep.WindowStart) {
			rep.WindowStart = line.Time
		}
		if line.Time.After(rep.WindowEnd) {
			rep.WindowEnd = line.Time
		}

		switch line.Body.Get("event").String() {
		case "fetch_failed":
			rep.FetchFailures++
		case "projection_failed":
			rep.ProjectionFailures++
		case "walk_complete":
			rep.Passes++
		case "":
			if !line.Body.Get("id").Exists() {
				rep.SkippedLines++
				continue
			}
			rep.Records++
			id := line.Body.Get("id").String()
			i, seen := index[id]
			if !seen {
				i = len(rep.Groups)
				index[id] = i
				rep.Groups = append(rep.Groups, domain.GroupSummary{ID: id})
			}
			applyRecord(&rep.Groups[i], line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	for _, g := range rep.Groups {
		if g.ErrorCount > 0 {
			rep.HasErrors = true
			break
		}
	}
	return rep, nil
}

func applyRecord(g *domain.GroupSummary, line Line) {
	b := line.Body
	g.Seen++
	g.LastSeen = line.Time
	g.Name = b.Get("name").String()
	g.ParentGroupID = b.Get("parentGroupId").String()
	g.RunningCount = int(b.Get("runningCount").Int())
	g.StoppedCount = int(b.Get("stoppedCount").Int())
	g.InvalidCount = int(b.Get("invalidCount").Int())
	g.FlowFilesQueued = b.Get("flowFilesQueued").Int()
	g.BytesQueued = b.Get("bytesQueued").Int()
	g.BulletinCount = int(b.Get("bulletinCount").Int())
	g.ErrorCount = int(b.Get("errorCount").Int())

	g.LastError = ""
	errs := b.Get(`bulletins.#(level=="ERROR")#.message`).Array()
	if len(errs) > 0 {
		g.LastError = errs[len(errs)-1].String()
	}

	g.LastBulletin, g.LastBulletinLevel = "", ""
	if all := b.Get("bulletins").Array(); len(all) > 0 {
		last := all[len(all)-1]
		g.LastBulletin = last.Get("message").String()
		g.LastBulletinLevel = last.Get("level").String()
	}
}

// ErrorsOnly returns the groups whose latest record has error bulletins
func ErrorsOnly(groups []domain.GroupSummary) []domain.GroupSummary {
	out := make([]domain.GroupSummary, 0, len(groups))
	for _, g := range groups {
		if g.ErrorCount > 0 {
			out = append(out, g)
		}
	}
	return out
}
