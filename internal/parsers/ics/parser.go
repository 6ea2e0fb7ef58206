// Package ics parses iCalendar files into one section per event.
package ics

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// htmlTagPattern strips markup from event descriptions.
var htmlTagPattern = regexp.MustCompile(`<[^<]+?>`)

// Parser handles iCalendar documents.
type Parser struct{}

// New creates a new iCalendar parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".ics"}
}

// event is one parsed VEVENT.
type event struct {
	summary     string
	description string
	location    string
	start       time.Time
	end         time.Time
	startRaw    string
	endRaw      string
}

// Parse converts each calendar event into one section ordered by start
// time. Calendars without events yield a literal fallback section so
// the document still indexes.
func (p *Parser) Parse(_ context.Context, file driven.RawFile) ([]domain.Section, error) {
	events := parseEvents(string(file.Content))

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].start.Before(events[j].start)
	})

	var sections []domain.Section
	for _, ev := range events {
		name := ev.summary
		if name == "" {
			name = "Untitled"
		}

		lines := []string{
			"Event: " + name,
			"Starts: " + ev.startRaw,
			"Ends: " + ev.endRaw,
		}
		if ev.location != "" {
			lines = append(lines, "Location: "+ev.location)
		}
		if ev.description != "" {
			lines = append(lines, "Details: "+stripHTML(ev.description))
		}

		title := ev.summary
		if title == "" {
			title = ev.startRaw
		}
		if title == "" {
			title = "Calendar Event"
		}

		sections = append(sections, domain.Section{
			Title:   title,
			Content: strings.Join(lines, "\n"),
		})
	}

	if len(sections) == 0 {
		sections = append(sections, domain.Section{
			Title:   "Calendar",
			Content: "No events found.",
		})
	}

	return sections, nil
}

// parseEvents extracts VEVENT blocks from raw iCalendar content.
func parseEvents(content string) []event {
	var events []event
	var current *event

	for _, line := range unfold(content) {
		name, value := splitProperty(line)
		switch name {
		case "BEGIN":
			if value == "VEVENT" {
				current = &event{}
			}
		case "END":
			if value == "VEVENT" && current != nil {
				events = append(events, *current)
				current = nil
			}
		case "SUMMARY":
			if current != nil {
				current.summary = unescape(value)
			}
		case "DESCRIPTION":
			if current != nil {
				current.description = unescape(value)
			}
		case "LOCATION":
			if current != nil {
				current.location = unescape(value)
			}
		case "DTSTART":
			if current != nil {
				current.start, current.startRaw = parseDateTime(value)
			}
		case "DTEND":
			if current != nil {
				current.end, current.endRaw = parseDateTime(value)
			}
		}
	}

	return events
}

// unfold joins continuation lines (RFC 5545 folds long lines with a
// leading space or tab) and normalises line endings.
func unfold(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var lines []string
	for _, line := range raw {
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += strings.TrimLeft(line, " \t")
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitProperty separates a content line into its property name and
// value, discarding parameters (e.g. "DTSTART;TZID=...:value").
func splitProperty(line string) (name, value string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return strings.ToUpper(strings.TrimSpace(line)), ""
	}
	name = line[:idx]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	return strings.ToUpper(strings.TrimSpace(name)), strings.TrimSpace(line[idx+1:])
}

// unescape reverses iCalendar text escaping.
func unescape(value string) string {
	r := strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)
	return r.Replace(value)
}

// dateTimeLayouts covers the forms seen in course calendars: UTC,
// floating local and all-day dates.
var dateTimeLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

// parseDateTime parses an iCalendar timestamp. The second return is the
// ISO 8601 rendering used in section content; unparseable values render
// as empty.
func parseDateTime(value string) (time.Time, string) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), t.UTC().Format(time.RFC3339)
		}
	}
	return time.Time{}, ""
}

// stripHTML removes markup tags from a description.
func stripHTML(raw string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(raw, ""))
}
