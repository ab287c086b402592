package jsonutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusAccepted, map[string]int{"n": 1})

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"n":1}` {
		t.Errorf("body = %q", got)
	}
}

func TestJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, nil)
	if rec.Body.Len() != 0 {
		t.Errorf("nil data should write no body, got %q", rec.Body.String())
	}
}

func TestBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "unsupported key")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "unsupported key" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestDecode(t *testing.T) {
	type keyReq struct {
		Text string `json:"text"`
		Key  string `json:"key"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"text":"1. 첫째","key":"enter"}`, false},
		{"empty", ``, true},
		{"malformed", `{"text":`, true},
		{"unknown field", `{"text":"a","extra":1}`, true},
		{"two objects", `{"text":"a"}{"text":"b"}`, true},
		{"wrong type", `{"text":5}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/edit/keys", strings.NewReader(tt.body))
			var v keyReq
			err := Decode(req, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (v.Text != "1. 첫째" || v.Key != "enter") {
				t.Errorf("decoded = %+v", v)
			}
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	big := `{"text":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/edit/keys", strings.NewReader(big))
	var v map[string]string
	if err := Decode(req, &v); err == nil {
		t.Error("Decode() should reject oversized bodies")
	}
}
