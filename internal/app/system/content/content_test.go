package content

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

func TestSourceOf(t *testing.T) {
	blocks := []models.ContentBlock{{ID: "b1", Kind: models.BlockParagraph, Value: "x"}}

	tests := []struct {
		name string
		sub  models.Subsection
		want SourceKind
	}{
		{"blocks win", models.Subsection{Blocks: blocks, Content: models.LegacyContent{"old"}}, SourceBlocks},
		{"legacy string", models.Subsection{Content: models.LegacyContent{"a\nb"}}, SourceLegacy},
		{"legacy media only", models.Subsection{Media: "/m.png"}, SourceLegacy},
		{"blank legacy", models.Subsection{Content: models.LegacyContent{"  "}}, SourceEmpty},
		{"nothing", models.Subsection{}, SourceEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SourceOf(tt.sub).Kind; got != tt.want {
				t.Errorf("SourceOf().Kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSourceOf_LegacySplitsEmbeddedNewlines(t *testing.T) {
	src := SourceOf(models.Subsection{Content: models.LegacyContent{"a\nb", "c"}})
	if got := strings.Join(src.Lines, "|"); got != "a|b|c" {
		t.Errorf("Lines = %q, want a|b|c", got)
	}
}

func TestMigrateLegacy(t *testing.T) {
	sub := models.Subsection{
		Content:      models.LegacyContent{"### 안내", "", "본문"},
		Media:        "/legacy.png",
		ExternalLink: "https://portal.example.com",
		LinkLabel:    "포털",
		Disclaimer:   "변경될 수 있습니다",
	}
	blocks := MigrateLegacy(sub)
	want := []models.BlockKind{
		models.BlockHeading,
		models.BlockParagraph,
		models.BlockMedia,
		models.BlockLink,
		models.BlockDisclaimer,
	}
	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(want))
	}
	for i, k := range want {
		if blocks[i].Kind != k {
			t.Errorf("block %d kind = %s, want %s", i, blocks[i].Kind, k)
		}
	}
	if blocks[3].Label != "포털" {
		t.Errorf("link label = %q, want 포털", blocks[3].Label)
	}
}

func TestMigrateLegacy_HoistedImageSuppressesLegacyMedia(t *testing.T) {
	sub := models.Subsection{
		Content: models.LegacyContent{"![x](/inline.png)", "본문"},
		Media:   "/legacy.png",
	}
	blocks := MigrateLegacy(sub)
	media := 0
	for _, b := range blocks {
		if b.Kind == models.BlockMedia {
			media++
			if b.Value != "/inline.png" {
				t.Errorf("media = %q, want /inline.png", b.Value)
			}
		}
	}
	if media != 1 {
		t.Errorf("media blocks = %d, want 1", media)
	}
}

func TestMigrateLegacy_KeepsExistingBlocks(t *testing.T) {
	blocks := []models.ContentBlock{{ID: "keep", Kind: models.BlockParagraph, Value: "x"}}
	got := MigrateLegacy(models.Subsection{Blocks: blocks, Content: models.LegacyContent{"ignored"}})
	if len(got) != 1 || got[0].ID != "keep" {
		t.Errorf("MigrateLegacy changed existing blocks: %+v", got)
	}
}

func TestNewSubsectionBlocks(t *testing.T) {
	blocks := NewSubsectionBlocks()
	if len(blocks) != 1 || blocks[0].Kind != models.BlockParagraph || blocks[0].ID == "" {
		t.Errorf("NewSubsectionBlocks() = %+v", blocks)
	}
}

func TestSnapshot(t *testing.T) {
	sub := models.Subsection{
		Slug:  "wifi",
		Title: "와이파이",
		Blocks: []models.ContentBlock{
			{Kind: models.BlockParagraph, Value: "SSID: corp"},
			{Kind: models.BlockMedia, Value: "/wifi.png"},
			{Kind: models.BlockLink, Value: "https://it.example.com", Label: "IT"},
			{Kind: models.BlockDisclaimer, Value: "비밀번호는 공유하지 마세요"},
		},
	}
	snap := Snapshot(sub)
	if snap.BodyContent != "SSID: corp" {
		t.Errorf("BodyContent = %q", snap.BodyContent)
	}
	if snap.Media != "/wifi.png" || snap.ExternalLink != "https://it.example.com" {
		t.Errorf("Media/ExternalLink = %q/%q", snap.Media, snap.ExternalLink)
	}
	if snap.DisclaimerNote != "비밀번호는 공유하지 마세요" || snap.Slug != "wifi" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestSearchText(t *testing.T) {
	sub := models.Subsection{
		Blocks: []models.ContentBlock{
			{Kind: models.BlockParagraph, Value: "**연차**는 15일"},
			{Kind: models.BlockDivider},
			{Kind: models.BlockMedia, Value: "/x.png"},
			{Kind: models.BlockLink, Value: "https://hr.example.com", Label: "인사 포털"},
		},
	}
	got := SearchText(sub)
	if got != "연차는 15일\n인사 포털" {
		t.Errorf("SearchText = %q", got)
	}
}

func TestSlug(t *testing.T) {
	valid := []string{"", "wifi", "monthly-award", "a1-b2"}
	invalid := []string{"Wifi", "-x", "x-", "a--b", "한글", "a b"}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true, want false", s)
		}
	}
	if got := NormalizeSlug("  Monthly Award!! "); got != "monthly-award" {
		t.Errorf("NormalizeSlug = %q, want monthly-award", got)
	}
}

func TestParseArchive(t *testing.T) {
	raw := `{"2024":{"3":{"title":"봄","winner":"김"},"4":{}}}`

	tests := []struct {
		name string
		slug string
		raw  string
		want int
	}{
		{"allowed slug", models.ArchiveSlugMonthlyAward, raw, 1},
		{"not in allow-list", "wifi", raw, 0},
		{"blank", models.ArchiveSlugBookClub, "", 0},
		{"invalid json", models.ArchiveSlugPhotoContest, "{not json", 0},
		{"wrong shape", models.ArchiveSlugPhotoContest, `[1,2]`, 0},
		{"null", models.ArchiveSlugPhotoContest, `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := ParseArchive(tt.slug, tt.raw)
			if data == nil {
				t.Fatal("ParseArchive returned nil")
			}
			if len(data) != tt.want {
				t.Errorf("years = %d, want %d", len(data), tt.want)
			}
		})
	}
}

func TestEncodeArchive_DropsEmpty(t *testing.T) {
	data := models.ArchiveData{
		"2024": {"3": {Title: "봄"}, "4": {}},
		"2023": {"1": {}},
	}
	s, err := EncodeArchive(data)
	if err != nil {
		t.Fatalf("EncodeArchive: %v", err)
	}
	if s != `{"2024":{"3":{"title":"봄"}}}` {
		t.Errorf("EncodeArchive = %s", s)
	}
	if s, _ := EncodeArchive(models.ArchiveData{"2023": {"1": {}}}); s != "" {
		t.Errorf("empty archive encoded to %q", s)
	}
	if err := ValidateArchive("{bad"); err == nil {
		t.Error("ValidateArchive accepted invalid JSON")
	}
}

func TestCalendar(t *testing.T) {
	data := models.ArchiveData{
		"2024": {"3": {Title: "봄"}, "04": {Winner: "이"}},
		"2021": {"1": {Title: "too old"}},
	}
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	years := Calendar(data, now)

	total := 0
	for _, y := range years {
		total += len(y.Months)
	}
	if total != CalendarMonths {
		t.Fatalf("calendar has %d months, want %d", total, CalendarMonths)
	}
	if years[0].Year != 2024 || len(years[0].Months) != 6 {
		t.Errorf("first year = %d with %d months, want 2024 with 6", years[0].Year, len(years[0].Months))
	}
	if got := PopulatedCount(years); got != 2 {
		t.Errorf("PopulatedCount = %d, want 2", got)
	}
	if years[0].Months[0].Month != time.January {
		t.Errorf("months not ascending: first is %v", years[0].Months[0].Month)
	}
	last := years[len(years)-1]
	if last.Year != 2021 || last.Months[0].Month != time.July {
		t.Errorf("oldest cell = %d/%v, want 2021/July", last.Year, last.Months[0].Month)
	}
}

func TestCanonicalize(t *testing.T) {
	sub := models.Subsection{
		Title:       "  사내 시스템  ",
		Slug:        "IT Systems",
		Keywords:    []string{" 메일 ", "", "메일", "vpn"},
		Content:     models.LegacyContent{"old text"},
		ArchiveJSON: `{"2025":{}}`,
		Blocks: []models.ContentBlock{
			{Kind: models.BlockParagraph, Value: "  "},
			{Kind: "bogus", Value: "x"},
			{ID: "t1", Kind: models.BlockTable, Value: "|a|b|\n|1|2|"},
			{ID: "l1", Kind: models.BlockList, Value: "1. 첫째\n\n  둘째\n- 셋째"},
			{ID: "d1", Kind: models.BlockDivider, Value: "ignored"},
			{ID: "m1", Kind: models.BlockMedia, Value: " https://img.example.com/a.png "},
			{ID: "k1", Kind: models.BlockLink, Value: "https://wiki.example.com", Label: " 위키 "},
			{ID: "c1", Kind: models.BlockDisclaimer, Value: "변경될 수 있음", Label: "x"},
		},
	}

	got := Canonicalize(sub)

	if got.Title != "사내 시스템" || got.Slug != "it-systems" {
		t.Errorf("Title/Slug = %q/%q", got.Title, got.Slug)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "메일" || got.Keywords[1] != "vpn" {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	if got.Content != nil {
		t.Errorf("Content should be cleared, got %v", got.Content)
	}
	if got.ArchiveJSON != "" {
		t.Error("ArchiveJSON kept on a non-archive slug")
	}

	wantKinds := []models.BlockKind{
		models.BlockTable, models.BlockList, models.BlockDivider,
		models.BlockMedia, models.BlockLink, models.BlockDisclaimer,
	}
	if len(got.Blocks) != len(wantKinds) {
		t.Fatalf("got %d blocks, want %d: %+v", len(got.Blocks), len(wantKinds), got.Blocks)
	}
	for i, k := range wantKinds {
		if got.Blocks[i].Kind != k {
			t.Errorf("block %d kind = %s, want %s", i, got.Blocks[i].Kind, k)
		}
	}
	if !strings.Contains(got.Blocks[0].Value, "---") {
		t.Errorf("table not re-serialized with separator: %q", got.Blocks[0].Value)
	}
	if got.Blocks[1].Value != "1. 첫째\n  - 둘째\n- 셋째" {
		t.Errorf("list = %q", got.Blocks[1].Value)
	}
	if got.Blocks[2].Value != "" {
		t.Error("divider should carry no payload")
	}
	if got.Blocks[5].Label != "" {
		t.Error("label kept on a non-link block")
	}

	if got.Media != "https://img.example.com/a.png" {
		t.Errorf("Media = %q", got.Media)
	}
	if got.ExternalLink != "https://wiki.example.com" || got.LinkLabel != "위키" {
		t.Errorf("link = %q/%q", got.ExternalLink, got.LinkLabel)
	}
	if got.Disclaimer != "변경될 수 있음" {
		t.Errorf("Disclaimer = %q", got.Disclaimer)
	}
}

func TestCanonicalize_KeepsArchiveOnArchiveSlug(t *testing.T) {
	sub := Canonicalize(models.Subsection{Title: "이달의 우수사원", Slug: models.ArchiveSlugMonthlyAward, ArchiveJSON: `{"2025":{"3":{"winner":"김"}}}`})
	if sub.ArchiveJSON == "" {
		t.Error("ArchiveJSON dropped on an archive slug")
	}
	if len(sub.Blocks) != 0 {
		t.Errorf("Blocks = %+v, want none", sub.Blocks)
	}
}

func TestCanonicalize_KeepsDashOnlyTableRows(t *testing.T) {
	table := "| 항목 | 비고 |\n| --- | --- |\n| 야근 식대 | 10000 |\n| - | - |\n| 주차 | 무료 |"
	got := Canonicalize(models.Subsection{
		Title:  "복리후생",
		Blocks: []models.ContentBlock{{ID: "t1", Kind: models.BlockTable, Value: table}},
	})
	if len(got.Blocks) != 1 {
		t.Fatalf("Blocks = %+v", got.Blocks)
	}
	if got.Blocks[0].Value != table {
		t.Errorf("table value = %q, want %q", got.Blocks[0].Value, table)
	}
}

func TestCanonicalize_DropsUnpopulatedArchiveMonths(t *testing.T) {
	raw := `{"2025":{"3":{"winner":"김"},"4":{"title":"  "}},"2024":{"1":{}}}`
	got := Canonicalize(models.Subsection{Title: "이달의 우수사원", Slug: models.ArchiveSlugMonthlyAward, ArchiveJSON: raw})
	want := `{"2025":{"3":{"winner":"김"}}}`
	if got.ArchiveJSON != want {
		t.Errorf("ArchiveJSON = %s, want %s", got.ArchiveJSON, want)
	}

	empty := Canonicalize(models.Subsection{Title: "x", Slug: models.ArchiveSlugMonthlyAward, ArchiveJSON: `{"2024":{"1":{}}}`})
	if empty.ArchiveJSON != "" {
		t.Errorf("all-empty archive stored as %s", empty.ArchiveJSON)
	}
}
