package markup

import (
	"reflect"
	"testing"
)

func TestParseInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "plain text",
			input: "hello world",
			want:  []Span{{Kind: SpanText, Text: "hello world"}},
		},
		{
			name:  "bold in middle",
			input: "a **b** c",
			want: []Span{
				{Kind: SpanText, Text: "a "},
				{Kind: SpanBold, Text: "b"},
				{Kind: SpanText, Text: " c"},
			},
		},
		{
			name:  "inline code",
			input: "run `go test` now",
			want: []Span{
				{Kind: SpanText, Text: "run "},
				{Kind: SpanCode, Text: "go test"},
				{Kind: SpanText, Text: " now"},
			},
		},
		{
			name:  "link",
			input: "see [docs](https://example.com)",
			want: []Span{
				{Kind: SpanText, Text: "see "},
				{Kind: SpanLink, Text: "docs", URL: "https://example.com"},
			},
		},
		{
			name:  "image wins over link",
			input: "![logo](/img/logo.png)",
			want:  []Span{{Kind: SpanImage, Text: "logo", URL: "/img/logo.png"}},
		},
		{
			name:  "no nesting inside bold",
			input: "**`x`**",
			want:  []Span{{Kind: SpanBold, Text: "`x`"}},
		},
		{
			name:  "code protects bold markers",
			input: "`**x**`",
			want:  []Span{{Kind: SpanCode, Text: "**x**"}},
		},
		{
			name:  "empty bold stays text",
			input: "****",
			want:  []Span{{Kind: SpanText, Text: "****"}},
		},
		{
			name:  "empty code stays text",
			input: "a `` b",
			want:  []Span{{Kind: SpanText, Text: "a `` b"}},
		},
		{
			name:  "blank bold stays text",
			input: "** **",
			want:  []Span{{Kind: SpanText, Text: "** **"}},
		},
		{
			name:  "empty link text stays text",
			input: "[](x)",
			want:  []Span{{Kind: SpanText, Text: "[](x)"}},
		},
		{
			name:  "korean text",
			input: "**복지** 안내",
			want: []Span{
				{Kind: SpanBold, Text: "복지"},
				{Kind: SpanText, Text: " 안내"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInline(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseInline(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInline_NoZeroWidthSpans(t *testing.T) {
	inputs := []string{"****", "``", "[]()", "**a**b**", "`a``b`", "![](x)"}
	for _, in := range inputs {
		for _, s := range ParseInline(in) {
			if s.Kind != SpanImage && s.Text == "" {
				t.Errorf("ParseInline(%q) produced empty %s span", in, s.Kind)
			}
		}
	}
}

func TestStripInline(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"**굵게** 그리고 `코드`", "굵게 그리고 코드"},
		{"[링크](https://x.io) 참고", "링크 참고"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := StripInline(tt.input); got != tt.want {
			t.Errorf("StripInline(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
