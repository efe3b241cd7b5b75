package extract

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"docexd/pkg/types"
)

// renderTable emits a GitHub-style markdown table.
func renderTable(t *types.Table) string {
	var sb strings.Builder
	if len(t.Headers) > 0 {
		sb.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
		sb.WriteString("|" + strings.Repeat(" --- |", len(t.Headers)) + "\n")
	}
	for _, row := range t.Data {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

var (
	headingRe  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisRe = regexp.MustCompile(`[*_]{1,2}([^*_]+)[*_]{1,2}`)
	linkRe     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

	headingLineRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	tableRowRe    = regexp.MustCompile(`^\|.*\|$`)
	tableRuleRe   = regexp.MustCompile(`^\|(\s*:?-+:?\s*\|)+$`)
)

// ToPlainText strips heading, emphasis and link syntax from markdown.
func ToPlainText(markdown string) string {
	text := headingRe.ReplaceAllString(markdown, "")
	text = emphasisRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	return text
}

// ToHTML renders markdown as a standalone HTML page: headings, emphasis,
// tables and paragraphs, wrapped in a minimal styled document.
func ToHTML(markdown, title string) string {
	var body strings.Builder
	lines := strings.Split(markdown, "\n")
	var para []string
	var tableRows [][]string
	tableHasHeader := false

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		body.WriteString("<p>" + inlineHTML(strings.Join(para, " ")) + "</p>\n")
		para = nil
	}
	flushTable := func() {
		if len(tableRows) == 0 {
			return
		}
		body.WriteString("<table>\n")
		for i, row := range tableRows {
			cell := "td"
			if tableHasHeader && i == 0 {
				cell = "th"
			}
			body.WriteString("<tr>")
			for _, c := range row {
				body.WriteString(fmt.Sprintf("<%s>%s</%s>", cell, inlineHTML(c), cell))
			}
			body.WriteString("</tr>\n")
		}
		body.WriteString("</table>\n")
		tableRows = nil
		tableHasHeader = false
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			flushPara()
			flushTable()
		case tableRuleRe.MatchString(line):
			tableHasHeader = len(tableRows) == 1
		case tableRowRe.MatchString(line):
			flushPara()
			cells := strings.Split(strings.Trim(line, "|"), "|")
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			tableRows = append(tableRows, cells)
		case headingLineRe.MatchString(line):
			flushPara()
			flushTable()
			m := headingLineRe.FindStringSubmatch(line)
			level := len(m[1])
			body.WriteString(fmt.Sprintf("<h%d>%s</h%d>\n", level, inlineHTML(m[2]), level))
		case line == "---":
			flushPara()
			flushTable()
			body.WriteString("<hr>\n")
		default:
			flushTable()
			para = append(para, line)
		}
	}
	flushPara()
	flushTable()

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; }
        table { border-collapse: collapse; width: 100%%; margin: 20px 0; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
    </style>
</head>
<body>
%s</body>
</html>`, html.EscapeString(title), body.String())
}

var boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)
var italicRe = regexp.MustCompile(`\*([^*]+)\*`)

func inlineHTML(s string) string {
	s = html.EscapeString(s)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	return s
}
