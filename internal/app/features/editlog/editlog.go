// internal/app/features/editlog/editlog.go
package editlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/stratahandbook/internal/app/features/errors"
	"github.com/dalemusser/stratahandbook/internal/app/store/edits"
	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
	"github.com/dalemusser/stratahandbook/internal/app/system/catalog"
	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
	"github.com/dalemusser/stratahandbook/internal/app/system/timeouts"
	"github.com/dalemusser/stratahandbook/internal/app/system/viewdata"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const pageSize = 50

// Handler serves the edit log viewer.
type Handler struct {
	store  *edits.Store
	loc    *time.Location
	errs   *errorsfeature.Handler
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a new edit log Handler. Times are shown in loc.
func NewHandler(
	store *edits.Store,
	loc *time.Location,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		store:  store,
		loc:    loc,
		errs:   errorsfeature.NewHandler(),
		errLog: errLog,
		logger: logger,
	}
}

// listItem is one edit log row.
type listItem struct {
	Time            string
	UserEmail       string
	SectionTitle    string
	SubsectionTitle string
	Anchor          string
	Action          string
	ActionLabel     string
	Changes         []string
}

type option struct {
	Value string
	Label string
}

// listData is the view model for the edit log page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Section   string
	User      string
	Action    string
	StartDate string
	EndDate   string

	Sections []option
	Actions  []option

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	RangeStart int
	RangeEnd   int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

var actionLabels = map[models.EditAction]string{
	models.EditCreate: "추가",
	models.EditUpdate: "수정",
	models.EditDelete: "삭제",
}

func actionOptions() []option {
	return []option{
		{Value: string(models.EditCreate), Label: actionLabels[models.EditCreate]},
		{Value: string(models.EditUpdate), Label: actionLabels[models.EditUpdate]},
		{Value: string(models.EditDelete), Label: actionLabels[models.EditDelete]},
	}
}

func sectionOptions() ([]option, map[string]string) {
	var opts []option
	titles := make(map[string]string)
	var walk func([]models.Section)
	walk = func(secs []models.Section) {
		for _, s := range secs {
			opts = append(opts, option{Value: s.ID, Label: s.Title})
			titles[s.ID] = s.Title
			walk(s.Children)
		}
	}
	walk(catalog.Default())
	return opts, titles
}

// Routes returns a chi.Router with the edit log mounted. Admins only.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRole(auth.RoleAdmin))

	r.Get("/", h.list)

	return r
}

// list shows edit log entries, newest first, with filters and paging.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	section := strings.TrimSpace(q.Get("section"))
	user := normalize.Email(q.Get("user"))
	action := strings.TrimSpace(q.Get("action"))
	startDate := strings.TrimSpace(q.Get("start_date"))
	endDate := strings.TrimSpace(q.Get("end_date"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := edits.QueryFilter{
		SectionID: section,
		UserEmail: user,
		Limit:     pageSize,
		Page:      int64(page),
	}
	if _, ok := actionLabels[models.EditAction(action)]; ok {
		filter.Action = models.EditAction(action)
	} else {
		action = ""
	}
	if startDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", startDate, h.loc); err == nil {
			filter.StartTime = &t
		}
	}
	if endDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", endDate, h.loc); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "query edit log")
	defer cancel()

	entries, err := h.store.Query(ctx, filter)
	if err != nil {
		h.errLog.Log(r, "failed to query edit log", err)
		h.errs.InternalError(w, r)
		return
	}
	total, err := h.store.Count(ctx, filter)
	if err != nil {
		h.logger.Warn("failed to count edit log entries", zap.Error(err))
		total = int64(len(entries))
	}

	sections, titles := sectionOptions()
	items := make([]listItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, h.item(e, titles))
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	rangeStart := (page-1)*pageSize + 1
	rangeEnd := rangeStart + len(items) - 1
	if len(items) == 0 {
		rangeStart, rangeEnd = 0, 0
	}


	vm := listData{
		BaseVM:     viewdata.NewBaseVM(r, "편집 기록", "/"),
		Items:      items,
		Section:    section,
		User:       user,
		Action:     action,
		StartDate:  startDate,
		EndDate:    endDate,
		Sections:   sections,
		Actions:    actionOptions(),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevURL:    pageURL(r, max(page-1, 1)),
		NextURL:    pageURL(r, min(page+1, totalPages)),
	}

	templates.Render(w, r, "editlog/list", vm)
}

// pageURL keeps the request's filters and swaps the page number.
func pageURL(r *http.Request, page int) string {
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	return "/edit/log?" + q.Encode()
}

func (h *Handler) item(e models.EditLogEntry, titles map[string]string) listItem {
	it := listItem{
		Time:            e.Timestamp.In(h.loc).Format("2006-01-02 15:04"),
		UserEmail:       e.UserEmail,
		SectionTitle:    titles[e.SectionID],
		SubsectionTitle: e.SubsectionTitle,
		Action:          string(e.Action),
		ActionLabel:     actionLabels[e.Action],
		Changes:         changedFields(e.Before, e.After),
	}
	if it.SectionTitle == "" {
		it.SectionTitle = e.SectionID
	}
	if e.Action != models.EditDelete {
		it.Anchor = e.SubsectionID
		if e.After != nil && e.After.Slug != "" {
			it.Anchor = e.After.Slug
		}
	}
	return it
}

// changedFields names the snapshot fields that differ between before and
// after. It is empty unless both snapshots are present.
func changedFields(before, after *models.Snapshot) []string {
	if before == nil || after == nil {
		return nil
	}
	var out []string
	if before.Title != after.Title {
		out = append(out, "제목")
	}
	if before.Slug != after.Slug {
		out = append(out, "슬러그")
	}
	if before.BodyContent != after.BodyContent {
		out = append(out, "본문")
	}
	if before.Media != after.Media {
		out = append(out, "이미지")
	}
	if before.ExternalLink != after.ExternalLink {
		out = append(out, "링크")
	}
	if before.DisclaimerNote != after.DisclaimerNote {
		out = append(out, "안내 문구")
	}
	return out
}
