package formatter

// ConstantConditionFormatter adds the operand ranges and a hint about the
// branch that can never run.
type ConstantConditionFormatter struct{}

func (f *ConstantConditionFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}
{{- if .Note}}
{{note .Note .Padding}}
{{- end}}
{{- if eq .Verdict "true"}}
{{help "the else branch, if any, is never taken" .Padding}}
{{- else if eq .Verdict "false"}}
{{help "the body of this if statement is never executed" .Padding}}
{{- end}}

`
}
