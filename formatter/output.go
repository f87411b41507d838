package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/gnolang/rangelint/internal"
	"github.com/gnolang/rangelint/internal/lints"
	tt "github.com/gnolang/rangelint/internal/types"
)

// Format selects how issues are printed.
type Format string

const (
	FormatText Format = "text"
	FormatLine Format = "line"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatLine, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, line or json)", s)
}

// SourceReader loads the content of a file for snippets.
type SourceReader func(filename string) (*internal.SourceCode, error)

// Write prints issues in the given format, grouped by file in name order.
// readSource is only used by the text format; a file that cannot be read
// is printed without snippets.
func Write(w io.Writer, format Format, issues []tt.Issue, readSource SourceReader) error {
	files, byFile := groupByFile(issues)

	switch format {
	case FormatJSON:
		return writeJSON(w, files, byFile)
	case FormatLine:
		for _, filename := range files {
			for _, issue := range byFile[filename] {
				if _, err := fmt.Fprintln(w, LineIssue(issue)); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		for _, filename := range files {
			var src *internal.SourceCode
			if readSource != nil {
				src, _ = readSource(filename)
			}
			if _, err := io.WriteString(w, GenerateFormattedIssue(byFile[filename], src)); err != nil {
				return err
			}
		}
		return nil
	}
}

// LineIssue renders an issue on one line.
//
//	main.go:6:5: WARNING: in fn f: c == d: is always true
func LineIssue(issue tt.Issue) string {
	pos := fmt.Sprintf("%s:%d:%d", issue.Filename, issue.Start.Line, issue.Start.Column)
	if issue.Rule == lints.ConstantConditionRule && issue.Condition != "" {
		return fmt.Sprintf("%s: %s: in fn %s: %s: is always %s",
			pos, issue.Severity, issue.Function, issue.Condition, issue.Verdict)
	}
	return fmt.Sprintf("%s: %s: %s: %s", pos, issue.Severity, issue.Rule, issue.Message)
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonIssue struct {
	Rule      string       `json:"rule"`
	Category  string       `json:"category,omitempty"`
	Severity  string       `json:"severity"`
	Function  string       `json:"function,omitempty"`
	Condition string       `json:"condition,omitempty"`
	Verdict   string       `json:"verdict,omitempty"`
	Message   string       `json:"message"`
	Note      string       `json:"note,omitempty"`
	Start     jsonPosition `json:"start"`
	End       jsonPosition `json:"end"`
}

func writeJSON(w io.Writer, files []string, byFile map[string][]tt.Issue) error {
	out := make(map[string][]jsonIssue, len(files))
	for _, filename := range files {
		for _, issue := range byFile[filename] {
			out[filename] = append(out[filename], jsonIssue{
				Rule:      issue.Rule,
				Category:  issue.Category,
				Severity:  issue.Severity.String(),
				Function:  issue.Function,
				Condition: issue.Condition,
				Verdict:   issue.Verdict,
				Message:   issue.Message,
				Note:      issue.Note,
				Start:     jsonPosition{issue.Start.Line, issue.Start.Column},
				End:       jsonPosition{issue.End.Line, issue.End.Column},
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	return nil
}

func groupByFile(issues []tt.Issue) ([]string, map[string][]tt.Issue) {
	byFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		byFile[issue.Filename] = append(byFile[issue.Filename], issue)
	}
	files := make([]string, 0, len(byFile))
	for filename := range byFile {
		files = append(files, filename)
	}
	sort.Strings(files)
	return files, byFile
}
