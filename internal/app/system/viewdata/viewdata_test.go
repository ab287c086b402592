package viewdata

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
)

func TestNew_Visitor(t *testing.T) {
	vm := New(httptest.NewRequest("GET", "/search?q=x", nil))
	if vm.IsLoggedIn || vm.IsAdmin || vm.UserEmail != "" {
		t.Errorf("visitor vm = %+v", vm)
	}
	if vm.SiteName == "" {
		t.Error("SiteName should default")
	}
}

func TestNewBaseVM_Admin(t *testing.T) {
	req := httptest.NewRequest("GET", "/edit/faq/x", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{Email: "a@example.com", Name: "관리자", Role: "admin"})

	vm := NewBaseVM(req, "편집", "/")
	if !vm.IsLoggedIn || !vm.IsAdmin {
		t.Errorf("admin flags = %v, %v", vm.IsLoggedIn, vm.IsAdmin)
	}
	if vm.UserEmail != "a@example.com" || vm.UserName != "관리자" || vm.Title != "편집" {
		t.Errorf("vm = %+v", vm)
	}
	if vm.BackURL == "" {
		t.Error("BackURL should fall back to the default")
	}
}

func TestNew_NameFallsBackToEmail(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{Email: "m@example.com", Role: "member"})
	vm := New(req)
	if vm.UserName != "m@example.com" || vm.IsAdmin {
		t.Errorf("vm = %+v", vm)
	}
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { siteName = DefaultSiteName })
	Init("")
	if siteName != DefaultSiteName {
		t.Errorf("blank Init changed the name to %q", siteName)
	}
	Init("사내 핸드북")
	if got := New(httptest.NewRequest("GET", "/", nil)).SiteName; got != "사내 핸드북" {
		t.Errorf("SiteName = %q", got)
	}
}
