package nolint

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		rules   []string
		wantErr error
	}{
		{text: "//nolint", rules: nil},
		{text: "//nolint // generated", rules: nil},
		{text: "//nolint:constant-condition", rules: []string{"constant-condition"}},
		{text: "//nolint:a, b ,c", rules: []string{"a"}},
		{text: "//nolint:a,b,c", rules: []string{"a", "b", "c"}},
		{text: "//nolint:constant-condition // loop guard", rules: []string{"constant-condition"}},
		{text: "//nolint:", wantErr: errNoRules},
		{text: "//nolintfoo", wantErr: errNotDirective},
		{text: "// nolint", wantErr: errNotDirective},
		{text: "/* nolint */", wantErr: errNotDirective},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			rules, err := parseDirective(tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var got []string
			for r := range rules {
				got = append(got, r)
			}
			assert.ElementsMatch(t, tt.rules, got)
		})
	}
}

func TestIsNolint(t *testing.T) {
	t.Parallel()

	src := `package main

func main() {
	//nolint
	a := 1
	b := 2
	if a < b { //nolint:constant-condition
	}
	//nolint:other
	if b > a {
	}
}

//nolint:constant-condition
func f() {
	x := 1
	if x == x {
	}
}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	require.NoError(t, err)

	m := ParseComments(f, fset)

	tests := []struct {
		line int
		rule string
		want bool
	}{
		{line: 4, rule: "anything", want: true},
		{line: 5, rule: "anything", want: true},
		{line: 6, rule: "anything", want: false},
		{line: 7, rule: "constant-condition", want: true},
		{line: 8, rule: "constant-condition", want: true},
		{line: 7, rule: "other", want: false},
		{line: 10, rule: "other", want: true},
		{line: 10, rule: "constant-condition", want: false},
		{line: 17, rule: "constant-condition", want: true},
		{line: 19, rule: "constant-condition", want: true},
		{line: 20, rule: "constant-condition", want: false},
	}

	for _, tt := range tests {
		pos := token.Position{Filename: "test.go", Line: tt.line}
		assert.Equal(t, tt.want, m.IsNolint(pos, tt.rule), "line %d rule %s", tt.line, tt.rule)
	}

	assert.False(t, m.IsNolint(token.Position{Filename: "other.go", Line: 5}, "anything"))
}

func TestFileLevelNolint(t *testing.T) {
	t.Parallel()

	src := `//nolint:constant-condition
package main

func main() {
	a := 1
	if a == a {
	}
}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	require.NoError(t, err)

	m := ParseComments(f, fset)
	assert.True(t, m.IsNolint(token.Position{Filename: "test.go", Line: 6}, "constant-condition"))
	assert.False(t, m.IsNolint(token.Position{Filename: "test.go", Line: 6}, "other"))
}
