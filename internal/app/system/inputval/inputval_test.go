package inputval

import (
	"strings"
	"testing"
)

func TestIsValidHTTPURL(t *testing.T) {
	tests := map[string]bool{
		"https://hr.example.com/leave": true,
		"http://intranet":              true,
		" https://x.example.com ":      true,
		"hr.example.com":               false,
		"ftp://files.example.com":      false,
		"https://":                     false,
		"":                             false,
		"javascript:alert(1)":          false,
	}
	for in, want := range tests {
		if got := IsValidHTTPURL(in); got != want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsValidMediaURL(t *testing.T) {
	tests := map[string]bool{
		"/assets/img/office.jpg":        true,
		"https://cdn.example.com/a.png": true,
		"//evil.example.com/a.png":      false,
		"assets/img/office.jpg":         false,
		"data:image/png;base64,AAAA":    false,
	}
	for in, want := range tests {
		if got := IsValidMediaURL(in); got != want {
			t.Errorf("IsValidMediaURL(%q) = %v, want %v", in, got, want)
		}
	}
}

type subsection struct {
	Title string `validate:"required,max=20" label:"제목"`
	Slug  string `validate:"slug" label:"슬러그"`
	Link  string `validate:"httpurl" label:"링크"`
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		input subsection
		want  string // substring of the message, "" for valid
	}{
		{"valid", subsection{Title: "연차", Slug: "annual-leave", Link: "https://hr.example.com"}, ""},
		{"optional fields empty", subsection{Title: "연차"}, ""},
		{"missing title", subsection{Slug: "x"}, "제목을(를) 입력하세요"},
		{"long title", subsection{Title: strings.Repeat("가", 21)}, "20자 이하"},
		{"bad slug", subsection{Title: "연차", Slug: "Annual Leave"}, "슬러그"},
		{"bad link", subsection{Title: "연차", Link: "hr.example.com"}, "http://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.input)
			if tt.want == "" && got != "" {
				t.Errorf("Check() = %q, want valid", got)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("Check() = %q, want it to mention %q", got, tt.want)
			}
		})
	}
}

func TestProblems_Archive(t *testing.T) {
	type archiveInput struct {
		Archive string `json:"archive_json" validate:"archive" label:"아카이브"`
	}

	if p := Problems(archiveInput{Archive: `{"2025":{"1":{"title":"1월"}}}`}); len(p) != 0 {
		t.Errorf("valid archive rejected: %+v", p)
	}
	if p := Problems(archiveInput{}); len(p) != 0 {
		t.Errorf("empty archive rejected: %+v", p)
	}
	p := Problems(archiveInput{Archive: "{not json"})
	if len(p) != 1 {
		t.Fatalf("problems = %+v, want one", p)
	}
	if p[0].Label != "아카이브" || p[0].Rule != "archive" {
		t.Errorf("problem = %+v", p[0])
	}
}

func TestLabelsOf(t *testing.T) {
	type in struct {
		Title string `json:"title" label:"제목"`
		Plain string
	}
	got := labelsOf(&in{})
	if got["Title"] != "제목" || got["title"] != "제목" {
		t.Errorf("labels = %v", got)
	}
	if _, ok := got["Plain"]; ok {
		t.Error("unlabeled field should be absent")
	}
	if labelsOf("not a struct") != nil {
		t.Error("non-struct should give nil")
	}
}
