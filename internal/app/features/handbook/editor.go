// internal/app/features/handbook/editor.go
package handbook

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/dalemusser/stratahandbook/internal/app/system/content"
	"github.com/dalemusser/stratahandbook/internal/app/system/inputval"
	"github.com/dalemusser/stratahandbook/internal/app/system/jsonutil"
	"github.com/dalemusser/stratahandbook/internal/app/system/listedit"
	"github.com/dalemusser/stratahandbook/internal/app/system/markup"
	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
	"github.com/dalemusser/stratahandbook/internal/app/system/render"
	"github.com/dalemusser/stratahandbook/internal/app/system/tablegrid"
	"github.com/dalemusser/stratahandbook/internal/app/system/viewdata"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// kindLabels are the editor menu names of each block kind.
var kindLabels = map[models.BlockKind]string{
	models.BlockHeading:    "제목",
	models.BlockParagraph:  "문단",
	models.BlockList:       "목록",
	models.BlockQuote:      "인용",
	models.BlockCode:       "코드",
	models.BlockTable:      "표",
	models.BlockDivider:    "구분선",
	models.BlockMedia:      "이미지",
	models.BlockLink:       "링크",
	models.BlockDisclaimer: "안내 문구",
}

type kindOption struct {
	Value string
	Label string
}

func kindOptions() []kindOption {
	out := make([]kindOption, 0, len(kindLabels))
	for _, k := range models.AllBlockKinds() {
		out = append(out, kindOption{Value: string(k), Label: kindLabels[k]})
	}
	return out
}

// blockVM is one block in the editor form.
type blockVM struct {
	ID        string
	Kind      string
	KindLabel string
	Value     string
	Label     string
	Grid      tablegrid.Grid
}

func newBlockVM(b models.ContentBlock) blockVM {
	v := blockVM{
		ID:        b.ID,
		Kind:      string(b.Kind),
		KindLabel: kindLabels[b.Kind],
		Value:     b.Value,
		Label:     b.Label,
	}
	if b.Kind == models.BlockTable {
		v.Grid = tablegrid.Parse(b.Value)
		if v.Grid.Rows() == 0 {
			v.Grid = tablegrid.New(2, 2)
		}
		v.Value = v.Grid.Serialize()
	}
	return v
}

// editorVM is the view model for the subsection editor.
type editorVM struct {
	viewdata.BaseVM

	SectionID    string
	SectionTitle string

	SubID       string
	SubTitle    string
	Slug        string
	Keywords    string
	ArchiveJSON string
	IsArchive   bool
	IsNew       bool

	Blocks       []blockVM
	Kinds        []kindOption
	ArchiveSlugs []string

	// Dirty marks submitted state that has not been stored.
	Dirty  bool
	Notice string
}

func (h *Handler) editorVM(r *http.Request, sec models.Section, sub models.Subsection, isNew bool) editorVM {
	vm := editorVM{
		BaseVM:       viewdata.NewBaseVM(r, "편집: "+sec.Title, "/#"+sec.ID),
		SectionID:    sec.ID,
		SectionTitle: sec.Title,
		SubID:        sub.ID,
		SubTitle:     sub.Title,
		Slug:         sub.Slug,
		ArchiveJSON:  sub.ArchiveJSON,
		IsArchive:    models.IsArchiveSlug(sub.Slug),
		IsNew:        isNew,
		Kinds:        kindOptions(),
		ArchiveSlugs: models.ArchiveSlugs(),
	}
	for i, k := range sub.Keywords {
		if i > 0 {
			vm.Keywords += ", "
		}
		vm.Keywords += k
	}
	// Legacy subsections open in the block editor already migrated.
	for _, b := range content.MigrateLegacy(sub) {
		vm.Blocks = append(vm.Blocks, newBlockVM(b))
	}
	return vm
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "section")
	sub, err := h.svc.CreateSubsection(r.Context(), actor(r), sectionID)
	if err != nil {
		h.editError(w, r, err)
		return
	}
	sec, _, _ := h.svc.Subsection(r.Context(), sectionID, "")
	templates.Render(w, r, "handbook/editor", h.editorVM(r, sec, sub, true))
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	sec, sub, err := h.svc.Subsection(r.Context(), chi.URLParam(r, "section"), chi.URLParam(r, "sub"))
	if err != nil {
		h.logger.Warn("edit of missing subsection",
			zap.String("section_id", chi.URLParam(r, "section")),
			zap.String("subsection_id", chi.URLParam(r, "sub")),
			zap.Error(err))
		h.errs.NotFound(w, r)
		return
	}
	templates.Render(w, r, "handbook/editor", h.editorVM(r, sec, sub, false))
}

// subsectionInput is validated before a save.
type subsectionInput struct {
	Title       string `validate:"required,max=200" label:"제목"`
	Slug        string `validate:"slug,max=80" label:"슬러그"`
	ArchiveJSON string `validate:"archive" label:"아카이브 데이터"`
}

type linkInput struct {
	URL string `validate:"httpurl" label:"링크"`
}

type mediaInput struct {
	URL string `validate:"mediaurl" label:"이미지 주소"`
}

// parseForm reads the editor form into a subsection. Blocks arrive as
// parallel block_id, block_kind, block_value and block_label fields.
func parseForm(r *http.Request) (models.Subsection, bool, error) {
	if err := r.ParseForm(); err != nil {
		return models.Subsection{}, false, err
	}
	f := r.PostForm
	sub := models.Subsection{
		ID:          chi.URLParam(r, "sub"),
		Title:       f.Get("title"),
		Slug:        f.Get("slug"),
		Keywords:    normalize.List(f.Get("keywords")),
		ArchiveJSON: f.Get("archive_json"),
	}
	sub.Blocks = parseBlocks(f)
	return sub, f.Get("new") == "1", nil
}

func parseBlocks(f url.Values) []models.ContentBlock {
	ids, kinds, values, labels := f["block_id"], f["block_kind"], f["block_value"], f["block_label"]
	blocks := make([]models.ContentBlock, 0, len(kinds))
	for i, k := range kinds {
		b := models.ContentBlock{Kind: models.BlockKind(k)}
		if i < len(ids) {
			b.ID = ids[i]
		}
		if i < len(values) {
			b.Value = values[i]
		}
		if i < len(labels) {
			b.Label = labels[i]
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// validate checks the submission and returns a user-facing message.
func (h *Handler) validate(sub models.Subsection) string {
	msg := inputval.Check(subsectionInput{
		Title:       sub.Title,
		Slug:        content.NormalizeSlug(sub.Slug),
		ArchiveJSON: sub.ArchiveJSON,
	})
	if msg != "" {
		return msg
	}
	total := 0
	for _, b := range sub.Blocks {
		switch b.Kind {
		case models.BlockLink:
			msg = inputval.Check(linkInput{URL: b.Value})
		case models.BlockMedia:
			msg = inputval.Check(mediaInput{URL: b.Value})
		}
		if msg != "" {
			return msg
		}
		total += utf8.RuneCountInString(b.Value) + utf8.RuneCountInString(b.Label)
	}
	if h.cfg.MaxContentLength > 0 && total > h.cfg.MaxContentLength {
		return "내용이 너무 깁니다. 최대 " + strconv.Itoa(h.cfg.MaxContentLength) + "자까지 저장할 수 있습니다."
	}
	return ""
}

// save stores one subsection. On failure the editor is shown again with the
// submitted state, still marked dirty, so nothing typed is lost.
func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "section")
	sub, isNew, err := parseForm(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	a := actor(r)
	if !a.Admin {
		h.editError(w, r, ErrForbidden)
		return
	}

	if msg := h.validate(sub); msg != "" {
		h.renderDirty(w, r, sectionID, sub, isNew, msg, http.StatusUnprocessableEntity)
		return
	}

	saved, err := h.svc.SaveSubsection(r.Context(), a, SaveRequest{SectionID: sectionID, Subsection: sub, New: isNew})
	switch {
	case err == nil:
		http.Redirect(w, r, "/?notice=saved#"+anchor(saved), http.StatusSeeOther)
	case errors.Is(err, ErrForbidden):
		h.editError(w, r, err)
	case errors.Is(err, ErrSectionNotFound):
		h.errs.NotFound(w, r)
	case errors.Is(err, ErrSubsectionNotFound):
		h.renderDirty(w, r, sectionID, sub, isNew, notices["stale"], http.StatusConflict)
	default:
		h.errLog.LogWithFields(r, "failed to save subsection", err,
			zap.String("section_id", sectionID),
			zap.String("subsection_id", sub.ID))
		h.renderDirty(w, r, sectionID, sub, isNew, "저장하지 못했습니다. 잠시 후 다시 시도해 주세요.", http.StatusInternalServerError)
	}
}

func (h *Handler) renderDirty(w http.ResponseWriter, r *http.Request, sectionID string, sub models.Subsection, isNew bool, notice string, status int) {
	sec, _, _ := h.svc.Subsection(r.Context(), sectionID, "")
	if sec.ID == "" {
		sec.ID = sectionID
	}
	vm := h.editorVM(r, sec, sub, isNew)
	vm.Dirty = true
	vm.Notice = notice
	w.WriteHeader(status)
	templates.Render(w, r, "handbook/editor", vm)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "section")
	err := h.svc.DeleteSubsection(r.Context(), actor(r), sectionID, chi.URLParam(r, "sub"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/?notice=deleted#"+sectionID, http.StatusSeeOther)
	case errors.Is(err, ErrSubsectionNotFound):
		http.Redirect(w, r, "/?notice=stale#"+sectionID, http.StatusSeeOther)
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrSectionNotFound):
		h.editError(w, r, err)
	default:
		h.errLog.LogWithFields(r, "failed to delete subsection", err, zap.String("section_id", sectionID))
		h.errs.InternalError(w, r)
	}
}

// editError maps service errors that end the request to an error page.
func (h *Handler) editError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		h.errs.Forbidden(w, r)
	case errors.Is(err, ErrSectionNotFound), errors.Is(err, ErrSubsectionNotFound):
		h.errs.NotFound(w, r)
	default:
		h.errLog.Log(r, "handbook edit failed", err)
		h.errs.InternalError(w, r)
	}
}

type previewVM struct {
	Title string
	Body  template.HTML
	Empty bool
}

// preview renders the submitted editor state without storing it.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	sub, _, err := parseForm(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sub = content.Canonicalize(sub)
	nodes := render.RenderSubsection(sub)
	templates.RenderSnippet(w, "handbook/preview", previewVM{
		Title: sub.Title,
		Body:  render.HTML(nodes),
		Empty: len(nodes) == 0,
	})
}

// newBlock returns the editor fields for one new block of the posted kind.
func (h *Handler) newBlock(w http.ResponseWriter, r *http.Request) {
	kind := models.BlockKind(r.FormValue("kind"))
	if !models.IsValidBlockKind(kind) {
		http.Error(w, "unknown block kind", http.StatusBadRequest)
		return
	}
	b := markup.NewBlock(kind, "")
	if kind == models.BlockTable {
		b.Value = tablegrid.New(2, 2).Serialize()
	}
	templates.RenderSnippet(w, "handbook/block", newBlockVM(b))
}

// tableOp applies one grid operation to a table block and returns the
// re-rendered block. The grid comes from the posted cells when present,
// otherwise from the block's pipe text.
func (h *Handler) tableOp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f := r.PostForm
	g := gridFromCells(f)
	if g == nil {
		g = tablegrid.Parse(f.Get("block_value"))
	}
	if g.Rows() == 0 {
		g = tablegrid.New(2, 2)
	}

	index, _ := strconv.Atoi(f.Get("index"))
	switch f.Get("op") {
	case "add_row":
		g.AddRow()
	case "remove_row":
		g.RemoveRow(index)
	case "add_col":
		g.AddColumn()
	case "remove_col":
		g.RemoveColumn(index)
	case "", "set":
	default:
		http.Error(w, "unknown table operation", http.StatusBadRequest)
		return
	}

	b := models.ContentBlock{ID: f.Get("block_id"), Kind: models.BlockTable, Value: g.Serialize()}
	if b.ID == "" {
		b = markup.NewBlock(models.BlockTable, b.Value)
	}
	templates.RenderSnippet(w, "handbook/block", newBlockVM(b))
}

// gridFromCells rebuilds a grid from row-major "cell" fields and the
// "rows"/"cols" dimensions. It returns nil when the form carries no cells or
// the dimensions do not account for exactly the posted cells.
func gridFromCells(f url.Values) tablegrid.Grid {
	cells := f["cell"]
	rows, _ := strconv.Atoi(f.Get("rows"))
	cols, _ := strconv.Atoi(f.Get("cols"))
	n := len(cells)
	if n == 0 || rows < 1 || cols < 1 || rows > n || cols > n || rows*cols != n {
		return nil
	}
	g := tablegrid.New(rows, cols)
	for i, v := range cells {
		_ = g.SetCell(i/cols, i%cols, v)
	}
	return g
}

type keyRequest struct {
	Text     string `json:"text"`
	SelStart int    `json:"sel_start"`
	SelEnd   int    `json:"sel_end"`
	Key      string `json:"key"`
}

type keyResponse struct {
	Text     string `json:"text"`
	SelStart int    `json:"sel_start"`
	SelEnd   int    `json:"sel_end"`
	Handled  bool   `json:"handled"`
}

// listKeys runs list auto-continuation for one key press in a list block.
func (h *Handler) listKeys(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	key, ok := listedit.ParseKey(req.Key)
	if !ok {
		jsonutil.BadRequest(w, "unsupported key")
		return
	}
	res := listedit.Apply(req.Text, req.SelStart, req.SelEnd, key)
	jsonutil.OK(w, keyResponse{
		Text:     res.Text,
		SelStart: res.SelStart,
		SelEnd:   res.SelEnd,
		Handled:  res.Handled,
	})
}
