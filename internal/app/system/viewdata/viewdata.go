// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/stratahandbook/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// DefaultSiteName is used until Init sets a configured name.
const DefaultSiteName = "온보딩 핸드북"

// BaseVM is what the shared layout reads. Page view models embed it:
//
//	type editorVM struct {
//	    viewdata.BaseVM
//	    SectionID string
//	}
type BaseVM struct {
	SiteName string

	IsLoggedIn bool
	IsAdmin    bool // shows edit links and the edit log entry
	UserEmail  string
	UserName   string
	Role       string

	Title       string
	BackURL     string
	CurrentPath string // login and logout return here

	CSRFToken string
}

var siteName = DefaultSiteName

// Init sets the site name from configuration. Blank keeps the default.
func Init(name string) {
	if name != "" {
		siteName = name
	}
}

// New fills the layout fields for r.
func New(r *http.Request) BaseVM {
	v := authz.From(r)
	name := v.Name
	if name == "" {
		name = v.Email
	}
	return BaseVM{
		SiteName:    siteName,
		IsLoggedIn:  v.SignedIn(),
		IsAdmin:     v.CanEdit(),
		UserEmail:   v.Email,
		UserName:    name,
		Role:        v.Role,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
}

// NewBaseVM is New plus a title and a back link, which falls back to
// backDefault when the request names none.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := New(r)
	vm.Title = title
	vm.BackURL = httpnav.ResolveBackURL(r, backDefault)
	return vm
}
