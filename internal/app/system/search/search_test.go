package search

import (
	"testing"

	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

func sampleSections() []models.Section {
	return []models.Section{
		{
			ID:    "welfare",
			Title: "복리후생",
			Subsections: []models.Subsection{
				{ID: "w1", Title: "연차 휴가", Keywords: []string{"휴가", "연차", "vacation"}, Content: models.LegacyContent{"입사 첫 해 연차는 **15일**입니다."}},
				{ID: "w2", Title: "식대 지원", Keywords: []string{"점심", "식대"}, Blocks: []models.ContentBlock{{Kind: models.BlockParagraph, Value: "월 20만원 한도"}}},
				{ID: "w3"}, // no title, no text; still indexed
			},
			Children: []models.Section{
				{ID: "welfare-club", Title: "동호회", Subsections: []models.Subsection{
					{ID: "c1", Title: "풋살 동호회", Content: models.LegacyContent{"매주 수요일"}},
				}},
			},
		},
		{
			ID:    "faq",
			Title: "자주 묻는 질문",
			Subsections: []models.Subsection{
				{ID: "f1", Title: "와이파이 비밀번호는?", Content: models.LegacyContent{"IT 헬프데스크에 문의"}},
				{ID: "f2", Title: "주차 등록", Content: models.LegacyContent{"총무팀에 차량 번호 전달"}},
			},
		},
	}
}

func TestBuildIndex(t *testing.T) {
	recs := BuildIndex(sampleSections())
	wantIDs := []string{"w1", "w2", "w3", "c1", "f1", "f2"}
	if len(recs) != len(wantIDs) {
		t.Fatalf("got %d records, want %d", len(recs), len(wantIDs))
	}
	for i, id := range wantIDs {
		if recs[i].SubsectionID != id {
			t.Errorf("record %d = %s, want %s", i, recs[i].SubsectionID, id)
		}
	}
	if recs[0].Content != "입사 첫 해 연차는 15일입니다." {
		t.Errorf("content not stripped: %q", recs[0].Content)
	}
	if recs[3].SectionID != "welfare-club" || recs[3].SectionTitle != "동호회" {
		t.Errorf("child record = %+v", recs[3])
	}
}

func TestBuildIndex_KeepsEmptySubsection(t *testing.T) {
	recs := BuildIndex([]models.Section{{ID: "s", Title: "빈 섹션", Subsections: []models.Subsection{{ID: "empty", Slug: "empty"}}}})
	if len(recs) != 1 || recs[0].SubsectionID != "empty" || recs[0].SectionTitle != "빈 섹션" {
		t.Fatalf("records = %+v, want one record for the empty subsection", recs)
	}
	if res := Search(recs, "연차", Options{}); len(res) != 0 {
		t.Errorf("empty subsection matched: %+v", res)
	}
}

func TestScore_Weights(t *testing.T) {
	r := Record{
		SectionTitle: "복리후생",
		Title:        "연차 휴가",
		Content:      "입사 첫 해 연차는 15일입니다.",
		Keywords:     []string{"휴가", "vacation"},
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		// phrase title 50 + phrase content 20 + token title 15 + content 5
		{"title and content phrase", "연차", 50 + 20 + 15 + 5},
		// phrase title 50; tokens: 연차 (title 15, content 5), 휴가 (title 15, keyword 25)
		{"two tokens", "연차 휴가", 50 + 15 + 5 + 15 + 25},
		// particle stripped: 연차는 -> 연차; phrase matches content only
		{"particle", "연차는", 20 + 15 + 5},
		{"keyword case folded", "VACATION", 25},
		{"section title", "복리", 5},
		{"no match", "주차", 0},
		{"blank", "   ", 0},
		{"punctuation only token", "!!!", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.query, r); got != tt.want {
				t.Errorf("Score(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestScore_KeywordCountedOnce(t *testing.T) {
	r := Record{Title: "x", Keywords: []string{"연차", "연차휴가", "연차수당"}}
	if got := Score("연차", r); got != WeightKeywordToken {
		t.Errorf("Score = %d, want %d", got, WeightKeywordToken)
	}
}

func TestScore_KeywordMonotonic(t *testing.T) {
	recs := BuildIndex(sampleSections())
	for _, r := range recs {
		for _, kw := range r.Keywords {
			with := Score("안내 "+kw, r)
			without := Score("안내 zzzz", r)
			if with-without < WeightKeywordToken {
				t.Errorf("record %s: keyword %q raised score by %d, want >= %d",
					r.SubsectionID, kw, with-without, WeightKeywordToken)
			}
			if Score(kw, r) < WeightKeywordToken {
				t.Errorf("record %s: Score(%q) below keyword weight", r.SubsectionID, kw)
			}
		}
	}
}

func TestSearch_EmptyQueryListsFAQ(t *testing.T) {
	recs := BuildIndex(sampleSections())
	for _, q := range []string{"", "  "} {
		res := Search(recs, q, Options{FAQSectionID: "faq"})
		if len(res) != 2 || res[0].SubsectionID != "f1" || res[1].SubsectionID != "f2" {
			t.Fatalf("Search(%q) = %+v, want f1, f2", q, res)
		}
		for _, r := range res {
			if r.Score != 0 {
				t.Errorf("FAQ listing should be unscored, got %d", r.Score)
			}
		}
	}
}

func TestSearch_OrderAndLimit(t *testing.T) {
	var recs []Record
	for i := 0; i < 30; i++ {
		recs = append(recs, Record{SubsectionID: string(rune('A' + i)), Title: "공지", Content: "안내"})
	}
	recs = append(recs, Record{SubsectionID: "best", Title: "공지 안내", Keywords: []string{"공지"}})

	res := Search(recs, "공지", Options{})
	if len(res) != DefaultLimit {
		t.Fatalf("got %d results, want %d", len(res), DefaultLimit)
	}
	if res[0].SubsectionID != "best" {
		t.Errorf("top result = %s, want best", res[0].SubsectionID)
	}
	// Equal scores keep index order.
	if res[1].SubsectionID != "A" || res[2].SubsectionID != "B" {
		t.Errorf("ties reordered: %s, %s", res[1].SubsectionID, res[2].SubsectionID)
	}

	if res := Search(recs, "공지", Options{Limit: 3}); len(res) != 3 {
		t.Errorf("Limit 3 returned %d", len(res))
	}
	if res := Search(recs, "없는단어", Options{}); len(res) != 0 {
		t.Errorf("non-matching query returned %d results", len(res))
	}
}

func TestStripParticle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"연차는", "연차"},
		{"회사에서", "회사"},
		{"집으로", "집"},
		{"휴가를", "휴가"},
		{"는", "는"},
		{"에서", "에서"},
		{"vacation", "vacation"},
	}
	for _, tt := range tests {
		if got := StripParticle(tt.in); got != tt.want {
			t.Errorf("StripParticle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	// Decomposed jamo for 한 compose to the same string as the precomposed form.
	decomposed := "\u1112\u1161\u11ab"
	if Normalize(decomposed) != Normalize("한") {
		t.Errorf("NFC not applied: %q vs %q", Normalize(decomposed), Normalize("한"))
	}
	if got := Normalize(" Wi-Fi  비밀번호? "); got != "wifi비밀번호" {
		t.Errorf("Normalize = %q, want wifi비밀번호", got)
	}
}
