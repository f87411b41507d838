package lints

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/rangelint/internal/extract"
	"github.com/gnolang/rangelint/internal/rangecheck"
	"github.com/gnolang/rangelint/internal/types"
)

func TestDetectConstantConditions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		code      string
		symmetric bool
		expected  []string
	}{
		{
			name: "equal literals",
			code: `
package main

func f(a, b uint) {
	c := 5
	d := 5
	if c == d {
	}
}`,
			symmetric: true,
			expected:  []string{"condition `c == d` is always true"},
		},
		{
			name: "smaller first without symmetric handling",
			code: `
package main

func g() {
	a := 5
	b := 10
	if a < b {
	}
}`,
			symmetric: false,
			expected:  nil,
		},
		{
			name: "smaller first with symmetric handling",
			code: `
package main

func g() {
	a := 5
	b := 10
	if a < b {
	}
}`,
			symmetric: true,
			expected:  []string{"condition `a < b` is always true"},
		},
		{
			name: "parameters overlap",
			code: `
package main

func h(a, b, c uint) {
	if a < b {
	}
}`,
			symmetric: true,
			expected:  nil,
		},
		{
			name: "call initializer",
			code: `
package main

func k() {
	x := someCall()
	y := x
	if x == y {
	}
}

func someCall() uint { return 1 }`,
			symmetric: true,
			expected:  nil,
		},
		{
			name: "zero against parameter",
			code: `
package main

func m(n uint) {
	var zero uint = 0
	if zero > n {
	}
}`,
			symmetric: true,
			expected:  []string{"condition `zero > n` is always false"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpDir := t.TempDir()

			tmpfile := filepath.Join(tmpDir, "test.go")
			err := os.WriteFile(tmpfile, []byte(tt.code), 0o644)
			require.NoError(t, err)

			node, fset, err := ParseFile(tmpfile, nil)
			require.NoError(t, err)

			opts := rangecheck.Options{Symmetric: tt.symmetric}
			issues, err := DetectConstantConditions(tmpfile, node, fset, types.SeverityWarning, opts, nil)
			require.NoError(t, err)

			var messages []string
			for _, issue := range issues {
				assert.Equal(t, ConstantConditionRule, issue.Rule)
				assert.Equal(t, types.SeverityWarning, issue.Severity)
				assert.Equal(t, tmpfile, issue.Filename)
				messages = append(messages, issue.Message)
			}
			assert.Equal(t, tt.expected, messages)
		})
	}
}

func TestDetectConstantConditionsPosition(t *testing.T) {
	t.Parallel()

	code := `package main

func f() {
	a := 1
	b := 1
	if a == b {
	}
}
`
	node, fset, err := ParseFile("pos.go", []byte(code))
	require.NoError(t, err)

	issues, err := DetectConstantConditions("pos.go", node, fset, types.SeverityError, rangecheck.DefaultOptions(), nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, 6, issue.Start.Line)
	assert.Equal(t, 5, issue.Start.Column)
	assert.Equal(t, 11, issue.End.Column)
	assert.Equal(t, "f", issue.Function)
	assert.Equal(t, "a == b", issue.Condition)
	assert.Equal(t, "true", issue.Verdict)
	assert.Equal(t, "a is [1], b is [1]", issue.Note)
}

func TestParseFileMalformed(t *testing.T) {
	t.Parallel()

	_, _, err := ParseFile("bad.go", []byte("package main\nfunc f( {\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrMalformed)
}
