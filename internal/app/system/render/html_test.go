package render

import (
	"strings"
	"testing"

	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

func TestHTML(t *testing.T) {
	blocks := []models.ContentBlock{
		{Kind: models.BlockHeading, Value: "**IT** 준비"},
		{Kind: models.BlockParagraph, Value: "노트북은 `입사 첫날` 수령"},
		{Kind: models.BlockTable, Value: "| 부서 | 이름 | 직급 | 이메일 |\n| --- | --- | --- | --- |\n| 개발 | 김 | 팀장 | kim@example.com |\n| 디자인 | 이 | 사원 | lee@example.com |"},
		{Kind: models.BlockCode, Value: "package main\n\nfunc main() {}"},
		{Kind: models.BlockLink, Value: "https://www.example.com", Label: "<사내> 포털"},
		{Kind: models.BlockParagraph, Value: "<script>alert(1)</script>"},
	}
	out := string(HTML(Render(blocks)))

	contains := []string{
		`<h3 class="hb-heading hb-first"><strong>IT</strong> 준비</h3>`,
		"<code>입사 첫날</code>",
		`<details class="hb-group" open`,
		"<summary>개발",
		`data-hue="210"`,
		`href="mailto:kim@example.com"`,
		`class="hb-copy"`,
		`class="chroma"`,
		`<span class="hb-link-host">example.com</span>`,
		"&lt;사내&gt; 포털",
		"&lt;script&gt;",
	}
	for _, s := range contains {
		if !strings.Contains(out, s) {
			t.Errorf("HTML() should contain %q\n%s", s, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("HTML() leaked a script tag:\n%s", out)
	}
	if strings.Count(out, "<details") != 2 {
		t.Errorf("want 2 group sections, got %d", strings.Count(out, "<details"))
	}
}

func TestCodeCSS(t *testing.T) {
	css, err := CodeCSS()
	if err != nil {
		t.Fatalf("CodeCSS: %v", err)
	}
	if !strings.Contains(string(css), ".chroma") {
		t.Errorf("CodeCSS() missing .chroma rules")
	}
}

func TestHighlight_UnknownLanguageFallsBack(t *testing.T) {
	out := highlight("그냥 텍스트", "no-such-language")
	if !strings.Contains(out, "그냥") {
		t.Errorf("highlight lost the code text: %s", out)
	}
}
