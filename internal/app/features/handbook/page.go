// internal/app/features/handbook/page.go
package handbook

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/content"
	"github.com/dalemusser/stratahandbook/internal/app/system/jsonutil"
	"github.com/dalemusser/stratahandbook/internal/app/system/render"
	"github.com/dalemusser/stratahandbook/internal/app/system/search"
	"github.com/dalemusser/stratahandbook/internal/app/system/viewdata"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// subsectionView is one rendered content card.
type subsectionView struct {
	ID        string
	SectionID string
	Anchor    string
	Title     string
	Keywords  []string
	Body      template.HTML
	Empty     bool
	CanEdit   bool

	IsArchive bool
	Calendar  []content.CalendarYear
	Populated int
}

// sectionView is one rendered section with its nested children.
type sectionView struct {
	ID          string
	Title       string
	Description string
	HeroImage   string
	HeroVideo   string
	Icon        string
	Depth       int
	CanEdit     bool
	Subsections []subsectionView
	Children    []sectionView
}

type navItem struct {
	ID    string
	Title string
	Icon  string
}

// pageVM is the view model for the handbook page.
type pageVM struct {
	viewdata.BaseVM
	Nav      []navItem
	Sections []sectionView
	Notice   string
	Query    string
	Results  []resultView
	FAQ      bool
}

var notices = map[string]string{
	"saved":   "저장되었습니다.",
	"deleted": "삭제되었습니다.",
	"stale":   "이미 삭제된 항목입니다. 페이지를 새로 고쳐 주세요.",
}

// page renders the whole handbook.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	sections := h.svc.Sections(r.Context())

	base := viewdata.New(r)
	vm := pageVM{
		BaseVM:   base,
		Sections: h.sectionViews(sections, 0, base.IsAdmin),
		Notice:   notices[r.URL.Query().Get("notice")],
	}
	for _, s := range sections {
		vm.Nav = append(vm.Nav, navItem{ID: s.ID, Title: s.Title, Icon: s.Icon})
	}

	templates.Render(w, r, "handbook/page", vm)
}

func (h *Handler) sectionViews(sections []models.Section, depth int, canEdit bool) []sectionView {
	out := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		sv := sectionView{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			HeroImage:   s.HeroImage,
			HeroVideo:   s.HeroVideo,
			Icon:        s.Icon,
			Depth:       depth,
			CanEdit:     canEdit,
			Children:    h.sectionViews(s.Children, depth+1, canEdit),
		}
		for _, sub := range s.Subsections {
			v := h.subsectionView(s.ID, sub)
			v.CanEdit = canEdit
			sv.Subsections = append(sv.Subsections, v)
		}
		out = append(out, sv)
	}
	return out
}

func (h *Handler) subsectionView(sectionID string, sub models.Subsection) subsectionView {
	nodes := render.RenderSubsection(sub)
	v := subsectionView{
		ID:        sub.ID,
		SectionID: sectionID,
		Anchor:    anchor(sub),
		Title:     sub.Title,
		Keywords:  sub.Keywords,
		Body:      render.HTML(nodes),
		Empty:     len(nodes) == 0,
	}
	if models.IsArchiveSlug(sub.Slug) {
		v.IsArchive = true
		v.Calendar = content.Calendar(content.ParseArchive(sub.Slug, sub.ArchiveJSON), h.now().In(h.cfg.Location))
		v.Populated = content.PopulatedCount(v.Calendar)
	}
	return v
}

func anchor(sub models.Subsection) string {
	if sub.Slug != "" {
		return sub.Slug
	}
	return sub.ID
}

// resultView is one search hit for the results snippet.
type resultView struct {
	SectionID    string
	SectionTitle string
	Title        string
	Anchor       string
	Excerpt      string
	Score        int
}

const excerptRunes = 80

func resultViews(results []search.Result) []resultView {
	out := make([]resultView, 0, len(results))
	for _, res := range results {
		out = append(out, resultView{
			SectionID:    res.SectionID,
			SectionTitle: res.SectionTitle,
			Title:        res.Title,
			Anchor:       res.Anchor(),
			Excerpt:      excerpt(res.Content),
			Score:        res.Score,
		})
	}
	return out
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	rs := []rune(s)
	if len(rs) <= excerptRunes {
		return s
	}
	return string(rs[:excerptRunes]) + "…"
}

// searchSnippet renders the results list for the search box. An empty query
// lists the FAQ.
func (h *Handler) searchSnippet(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	vm := pageVM{
		BaseVM:  viewdata.New(r),
		Query:   q,
		Results: resultViews(h.svc.Search(r.Context(), q, h.cfg.SearchLimit)),
		FAQ:     q == "",
	}
	templates.RenderSnippet(w, "handbook/search_results", vm)
}

type searchResponse struct {
	Query   string          `json:"query"`
	FAQ     bool            `json:"faq"`
	Results []search.Result `json:"results"`
}

// searchJSON returns scored results as JSON.
func (h *Handler) searchJSON(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	results := h.svc.Search(r.Context(), q, h.cfg.SearchLimit)
	if results == nil {
		results = []search.Result{}
	}
	jsonutil.OK(w, searchResponse{Query: q, FAQ: q == "", Results: results})
}
