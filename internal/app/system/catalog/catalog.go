// internal/app/system/catalog/catalog.go
package catalog

import (
	"sort"

	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

// Built-in section ids.
const (
	SectionCompany = "company"
	SectionIT      = "it"
	SectionWelfare = "welfare"
	SectionRules   = "rules"
	SectionFAQ     = "faq"
)

// Default returns the built-in handbook catalog. It is the seed for an empty
// database and the fallback whenever stored sections cannot be loaded.
// A fresh copy is returned on every call.
func Default() []models.Section {
	return []models.Section{
		{
			ID:          SectionCompany,
			Title:       "회사 소개",
			Description: "우리 회사의 미션, 조직, 일하는 방식",
			Icon:        "building",
			Order:       1,
			Subsections: []models.Subsection{
				{
					ID:       "company-mission",
					Slug:     "mission",
					Title:    "미션과 비전",
					Keywords: []string{"미션", "비전", "가치"},
					Blocks: []models.ContentBlock{
						{ID: "company-mission-1", Kind: models.BlockParagraph, Value: "관리자가 이 내용을 편집할 수 있습니다."},
					},
				},
				{
					ID:       "company-org",
					Slug:     "organization",
					Title:    "조직도",
					Keywords: []string{"조직", "부서", "연락처"},
					Blocks: []models.ContentBlock{
						{ID: "company-org-1", Kind: models.BlockTable, Value: "| 사업부 | 이름 | 직급 | 이메일 |\n| --- | --- | --- | --- |\n| 경영지원 | 홍길동 | 팀장 | hong@example.com |"},
					},
				},
			},
		},
		{
			ID:          SectionIT,
			Title:       "IT 환경 설정",
			Description: "계정, 장비, 보안 설정",
			Icon:        "laptop",
			Order:       2,
			Subsections: []models.Subsection{
				{
					ID:       "it-accounts",
					Slug:     "accounts",
					Title:    "계정 발급",
					Keywords: []string{"계정", "메일", "비밀번호", "wifi"},
					Blocks: []models.ContentBlock{
						{ID: "it-accounts-1", Kind: models.BlockList, Value: "1. 회사 메일 계정 로그인\n2. 메신저 설치\n3. VPN 설정"},
					},
				},
			},
		},
		{
			ID:          SectionWelfare,
			Title:       "복리후생",
			Description: "휴가, 지원 제도, 사내 행사",
			Icon:        "gift",
			Order:       3,
			Subsections: []models.Subsection{
				{
					ID:       "welfare-leave",
					Slug:     "leave",
					Title:    "연차 휴가",
					Keywords: []string{"연차", "휴가", "vacation"},
					Blocks: []models.ContentBlock{
						{ID: "welfare-leave-1", Kind: models.BlockParagraph, Value: "연차 사용 규정은 관리자가 입력합니다."},
					},
				},
				{
					ID:       "welfare-award",
					Slug:     models.ArchiveSlugMonthlyAward,
					Title:    "이달의 칭찬 릴레이",
					Keywords: []string{"칭찬", "수상"},
				},
			},
		},
		{
			ID:          SectionRules,
			Title:       "근무 규정",
			Description: "근무 시간, 재택, 보안 수칙",
			Icon:        "clipboard",
			Order:       4,
		},
		{
			ID:          SectionFAQ,
			Title:       "자주 묻는 질문",
			Description: "신규 입사자가 가장 많이 묻는 질문",
			Icon:        "help",
			Order:       5,
			Subsections: []models.Subsection{
				{
					ID:       "faq-wifi",
					Title:    "사내 와이파이 비밀번호는 어디서 확인하나요?",
					Keywords: []string{"와이파이", "wifi", "인터넷"},
					Blocks: []models.ContentBlock{
						{ID: "faq-wifi-1", Kind: models.BlockParagraph, Value: "IT 헬프데스크에 문의하세요."},
					},
				},
				{
					ID:       "faq-parking",
					Title:    "주차 등록은 어떻게 하나요?",
					Keywords: []string{"주차", "차량"},
					Blocks: []models.ContentBlock{
						{ID: "faq-parking-1", Kind: models.BlockParagraph, Value: "총무팀에 차량 번호를 전달하세요."},
					},
				},
			},
		},
	}
}

// Merge overlays stored sections onto the catalog. Catalog sections keep
// their order and icon; a stored copy replaces the catalog's content. Stored
// sections unknown to the catalog follow, ordered by their own Order.
func Merge(stored, catalog []models.Section) []models.Section {
	byID := make(map[string]models.Section, len(stored))
	for _, s := range stored {
		byID[s.ID] = s
	}

	out := make([]models.Section, 0, len(catalog)+len(stored))
	known := make(map[string]bool, len(catalog))
	for _, c := range catalog {
		known[c.ID] = true
		s, ok := byID[c.ID]
		if !ok {
			out = append(out, c)
			continue
		}
		s.Order = c.Order
		s.Icon = c.Icon
		if s.Title == "" {
			s.Title = c.Title
		}
		out = append(out, s)
	}

	var extra []models.Section
	for _, s := range stored {
		if !known[s.ID] {
			extra = append(extra, s)
		}
	}
	sort.SliceStable(extra, func(i, j int) bool { return extra[i].Order < extra[j].Order })
	return append(out, extra...)
}

// Find returns the section with id, searching nested children too.
func Find(sections []models.Section, id string) (*models.Section, bool) {
	for i := range sections {
		if sections[i].ID == id {
			return &sections[i], true
		}
		if s, ok := Find(sections[i].Children, id); ok {
			return s, true
		}
	}
	return nil, false
}

// Icon returns the catalog icon for a section id, or "" when unknown.
func Icon(id string) string {
	for _, s := range Default() {
		if s.ID == id {
			return s.Icon
		}
	}
	return ""
}
