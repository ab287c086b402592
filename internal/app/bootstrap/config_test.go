package bootstrap

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestParseEmailList(t *testing.T) {
	got := parseEmailList(" Boss@Example.com, hr@example.com\nboss@example.com,, ")
	want := []string{"boss@example.com", "hr@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseEmailList() = %v, want %v", got, want)
	}
	if got := parseEmailList(""); len(got) != 0 {
		t.Errorf("parseEmailList(\"\") = %v, want empty", got)
	}
}

func TestValidateDomain(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"example.com", false},
		{"corp.example.co.kr", false},
		{"boss@example.com", true},
		{"https://example.com", true},
		{"example.com/x", true},
		{"localhost", true},
		{".example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if err := validateDomain(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("validateDomain(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := loadLocation("Asia/Seoul")
	if err != nil || loc.String() != "Asia/Seoul" {
		t.Errorf("loadLocation(Asia/Seoul) = %v, %v", loc, err)
	}
	if loc, err := loadLocation(""); err != nil || loc.String() != "UTC" {
		t.Errorf("loadLocation(\"\") = %v, %v", loc, err)
	}
	if _, err := loadLocation("Mars/Olympus"); err == nil {
		t.Error("loadLocation(Mars/Olympus) should fail")
	}
}

func TestValidateConfig(t *testing.T) {
	base := AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		AllowedDomain: "example.com",
		AdminEmails:   []string{"boss@example.com"},
		EditLog:       "all",
		Timezone:      "Asia/Seoul",
		SearchLimit:   20,
	}
	if err := ValidateConfig(nil, base, zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig(valid) error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad domain", func(c *AppConfig) { c.AllowedDomain = "@example.com/" }},
		{"bad edit log", func(c *AppConfig) { c.EditLog = "sometimes" }},
		{"bad timezone", func(c *AppConfig) { c.Timezone = "Nowhere/City" }},
		{"negative limit", func(c *AppConfig) { c.SearchLimit = -1 }},
		{"negative retention", func(c *AppConfig) { c.EditLogRetention = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
				t.Error("ValidateConfig() should fail")
			}
		})
	}
}
