// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		rules []WordReplacement
		want  string
	}{
		{
			name:  "Sequential rules compound",
			input: "A",
			rules: []WordReplacement{{From: "A", To: "B"}, {From: "B", To: "C"}},
			want:  "C",
		},
		{
			name:  "Every occurrence is replaced",
			input: "cat cat cat",
			rules: []WordReplacement{{From: "cat", To: "dog"}},
			want:  "dog dog dog",
		},
		{
			name:  "Empty from is a no-op",
			input: "unchanged",
			rules: []WordReplacement{{From: "", To: "x"}},
			want:  "unchanged",
		},
		{
			name:  "From is a regular expression",
			input: "a.b axb",
			rules: []WordReplacement{{From: "a.b", To: "Z"}},
			want:  "Z Z",
		},
		{
			name:  "Groups expand in to",
			input: "Kim Minji",
			rules: []WordReplacement{{From: `(\w+) (\w+)`, To: "$2 $1"}},
			want:  "Minji Kim",
		},
		{
			name:  "Braces end a group name",
			input: "Minji",
			rules: []WordReplacement{{From: `(Min)ji`, To: "${1}su $1su"}},
			want:  "Minsu ",
		},
		{
			name:  "Named groups",
			input: "Kim Minji",
			rules: []WordReplacement{{From: `(?P<family>\w+) (?P<given>\w+)`, To: "${given} ${family}"}},
			want:  "Minji Kim",
		},
		{
			name:  "Missing group expands to nothing",
			input: "price",
			rules: []WordReplacement{{From: "price", To: "[$5]"}},
			want:  "[]",
		},
		{
			name:  "Double dollar is literal",
			input: "price",
			rules: []WordReplacement{{From: "price", To: "$$5"}},
			want:  "$5",
		},
		{
			name:  "No rules",
			input: "text",
			want:  "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Replace(tt.input, tt.rules)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceBadRuleIsIsolated(t *testing.T) {
	t.Parallel()

	rules := []WordReplacement{
		{From: "hello", To: "hi"},
		{From: "(unclosed", To: "x"},
		{From: "world", To: "there"},
	}

	got, err := Replace("hello world", rules)
	assert.Equal(t, "hi there", got)

	var ruleErr *RuleError

	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, 1, ruleErr.Index)
	assert.Equal(t, "(unclosed", ruleErr.From)
}
