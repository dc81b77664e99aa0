// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "Dialogue and thought",
			input: `She said "hello" and thought 'maybe'`,
			want: []Span{
				{Type: Narration, Text: "She said "},
				{Type: Dialogue, Text: "hello", Open: `"`, Close: `"`},
				{Type: Narration, Text: " and thought "},
				{Type: Thought, Text: "maybe", Open: "'", Close: "'"},
			},
		},
		{
			name:  "Curly quotes",
			input: "“안녕” ‘글쎄’",
			want: []Span{
				{Type: Dialogue, Text: "안녕", Open: "“", Close: "”"},
				{Type: Narration, Text: " "},
				{Type: Thought, Text: "글쎄", Open: "‘", Close: "’"},
			},
		},
		{
			name:  "Unmatched opening quote stays plain",
			input: `He said "wait`,
			want:  []Span{{Type: Narration, Text: `He said "wait`}},
		},
		{
			name:  "Matched then unmatched",
			input: `"a" then "b`,
			want: []Span{
				{Type: Dialogue, Text: "a", Open: `"`, Close: `"`},
				{Type: Narration, Text: ` then "b`},
			},
		},
		{
			name:  "Quotes do not nest",
			input: `"outer 'inner' still"`,
			want: []Span{
				{Type: Dialogue, Text: "outer 'inner' still", Open: `"`, Close: `"`},
			},
		},
		{
			name:  "Non-greedy",
			input: `"one" and "two"`,
			want: []Span{
				{Type: Dialogue, Text: "one", Open: `"`, Close: `"`},
				{Type: Narration, Text: " and "},
				{Type: Dialogue, Text: "two", Open: `"`, Close: `"`},
			},
		},
		{
			name:  "Plain",
			input: "just narration",
			want:  []Span{{Type: Narration, Text: "just narration"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Inline(tt.input))
		})
	}
}

func TestParagraphs(t *testing.T) {
	t.Parallel()

	got := Paragraphs("\r\nfirst line\nsecond line\r\n\r\n  \n\nnext paragraph\n\n\n")
	assert.Equal(t, []string{"first line\nsecond line", "next paragraph"}, got)

	assert.Nil(t, Paragraphs(" \n\n \t"))
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	input := "USER: hi there\nhow are you?\nAI: fine\n- the rain stops\nit gets quiet\n\n*smiles*\nloose line after blank"

	want := []Span{
		{Type: User, Text: "hi there\nhow are you?"},
		{Type: AI, Text: "fine"},
		{Type: Narration, Text: "the rain stops\nit gets quiet"},
		{Type: Narration, Text: "smiles", Italic: true},
		{Type: Narration, Text: "loose line after blank"},
	}

	assert.Equal(t, want, Prefix(input))
}

func TestPrefixNarrationMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want Span
	}{
		{"* walks away", Span{Type: Narration, Text: "walks away"}},
		{"*walks away", Span{Type: Narration, Text: "walks away"}},
		{"*sits down*", Span{Type: Narration, Text: "sits down", Italic: true}},
		{`*he said "hi" softly*`, Span{Type: Narration, Text: `he said "hi" softly`, Italic: true}},
		{"*sits* down", Span{Type: Narration, Text: "*sits* down"}},
		{"**bold** start", Span{Type: Narration, Text: "**bold** start"}},
		{"- *leans in*", Span{Type: Narration, Text: "*leans in*"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, []Span{tt.want}, Prefix(tt.line))
		})
	}
}

func TestPrefixBlankLineEndsSpeakerBlock(t *testing.T) {
	t.Parallel()

	got := Prefix("ai： 안녕\n\n그리고")

	assert.Equal(t, []Span{
		{Type: AI, Text: "안녕"},
		{Type: Narration, Text: "그리고"},
	}, got)
}

func TestAuto(t *testing.T) {
	t.Parallel()

	input := "\"Hello.\"\n“Are you there?”\nThe door creaks.\nWind howls.\n\n＂Again.＂"

	want := []Span{
		{Type: Dialogue, Text: "\"Hello.\"\n“Are you there?”"},
		{Type: Narration, Text: "The door creaks.\nWind howls."},
		{Type: Dialogue, Text: "＂Again.＂"},
	}

	assert.Equal(t, want, Auto(input))
}

// TestModeExclusivity checks that prefix markers mean nothing in auto mode.
func TestModeExclusivity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Span{{Type: Narration, Text: "USER: hi"}}, Chat("USER: hi", ModeAuto))
	assert.Equal(t, []Span{{Type: User, Text: "hi"}}, Chat("USER: hi", ModePrefix))
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ModePrefix, ParseMode("prefix"))
	assert.Equal(t, ModeAuto, ParseMode("auto"))
	assert.Equal(t, ModeAuto, ParseMode(""))
}
