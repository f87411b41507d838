package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/gnolang/rangelint/internal"
	"github.com/gnolang/rangelint/internal/lints"
	tt "github.com/gnolang/rangelint/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiCyan, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
)

// issueFormatter is implemented by the per-rule renderers of the text
// format.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter returns the renderer of rule, falling back to
// GeneralIssueFormatter.
func getIssueFormatter(rule string) issueFormatter {
	switch rule {
	case lints.ConstantConditionRule:
		return &ConstantConditionFormatter{}
	default:
		return &GeneralIssueFormatter{}
	}
}

// GenerateFormattedIssue renders issues of one file with a snippet of the
// offending source.
func GenerateFormattedIssue(issues []tt.Issue, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue, snippet, getIssueFormatter(issue.Rule)))
	}
	return builder.String()
}

type IssueData struct {
	Severity        string
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	Note            string
	Verdict         string
	SnippetLines    []string
	CommonIndent    string
}

var funcMap = template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
	"note":                note,
	"help":                help,
}

func buildIssue(issue tt.Issue, snippet *internal.SourceCode, formatter issueFormatter) string {
	if snippet == nil {
		snippet = &internal.SourceCode{}
	}
	startLine := issue.Start.Line
	endLine := issue.End.Line
	if endLine < startLine {
		endLine = startLine
	}
	maxLineNumWidth := calculateMaxLineNumWidth(endLine)

	var commonIndent string
	if isValidLineRange(startLine, endLine, snippet.Lines) {
		commonIndent = findCommonIndent(snippet.Lines[startLine-1 : endLine])
	}

	data := IssueData{
		Severity:        issue.Severity.String(),
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		StartLine:       startLine,
		StartColumn:     issue.Start.Column,
		EndLine:         endLine,
		EndColumn:       issue.End.Column,
		Message:         issue.Message,
		Note:            issue.Note,
		Verdict:         issue.Verdict,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		CommonIndent:    commonIndent,
		SnippetLines:    snippet.Lines,
	}

	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v\n", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func severityLabel(severity string) string {
	switch severity {
	case "ERROR":
		return errorStyle.Sprint("error")
	case "WARNING":
		return warningStyle.Sprint("warning")
	case "INFO":
		return infoStyle.Sprint("info")
	}
	return strings.ToLower(severity)
}

func header(rule, severity string, maxLineNumWidth int, filename string, startLine, startColumn int) string {
	padding := strings.Repeat(" ", maxLineNumWidth)
	return severityLabel(severity) + ": " + ruleStyle.Sprint(rule) + "\n" +
		lineStyle.Sprintf("%s--> ", padding) +
		fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)
}

func codeSnippet(snippetLines []string, startLine, endLine, maxLineNumWidth int, commonIndent, padding string) string {
	var b strings.Builder
	b.WriteString(lineStyle.Sprintf("%s|", padding))

	for i := startLine; i <= endLine; i++ {
		if i-1 < 0 || i-1 >= len(snippetLines) {
			continue
		}
		line := strings.TrimPrefix(snippetLines[i-1], commonIndent)
		b.WriteString("\n")
		b.WriteString(lineStyle.Sprintf("%*d | ", maxLineNumWidth, i))
		b.WriteString(line)
	}
	return b.String()
}

func underlineAndMessage(message, padding string, startLine, endLine, startColumn, endColumn int, snippetLines []string, commonIndent string) string {
	var b strings.Builder
	b.WriteString(lineStyle.Sprintf("%s| ", padding))

	if isValidLineRange(startLine, endLine, snippetLines) {
		indentWidth := calculateVisualColumn(commonIndent, len(commonIndent)+1)

		start := calculateVisualColumn(snippetLines[startLine-1], startColumn) - indentWidth
		if start < 0 {
			start = 0
		}
		// end positions are exclusive
		end := calculateVisualColumn(snippetLines[endLine-1], endColumn) - indentWidth
		length := end - start
		if startLine != endLine || length < 1 {
			length = 1
		}

		b.WriteString(strings.Repeat(" ", start))
		b.WriteString(messageStyle.Sprint(strings.Repeat("~", length)))
	}

	b.WriteString("\n")
	b.WriteString(lineStyle.Sprintf("%s= ", padding))
	b.WriteString(messageStyle.Sprint(message))
	return b.String()
}

func note(text, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + noteStyle.Sprint("note: ") + text
}

func help(text, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + noteStyle.Sprint("help: ") + text
}

func isValidLineRange(startLine, endLine int, snippetLines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		endLine <= len(snippetLines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// calculateVisualColumn returns the visual width of line before the 1-based
// byte column, expanding tabs.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

// findCommonIndent returns the leading whitespace shared by all non-empty
// lines.
func findCommonIndent(lines []string) string {
	var common []rune
	first := true
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		indent := []rune(line[:len(line)-len(trimmed)])
		if first {
			common = indent
			first = false
			continue
		}
		common = commonPrefix(common, indent)
		if len(common) == 0 {
			break
		}
	}
	return string(common)
}

func commonPrefix(a, b []rune) []rune {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
