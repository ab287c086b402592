// Package inputval checks editor submissions with waffle/pantry/validate
// and turns failures into Korean messages for the editor notice.
//
// Inputs are structs with validate and label tags:
//
//	type linkInput struct {
//	    URL string `validate:"httpurl" label:"링크"`
//	}
//
//	if msg := inputval.Check(linkInput{URL: v}); msg != "" {
//	    // show msg
//	}
package inputval

import (
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/stratahandbook/internal/app/system/content"
	"github.com/dalemusser/waffle/pantry/validate"
)

// Problem is one failed rule.
type Problem struct {
	Field   string
	Label   string
	Rule    string
	Message string
}

var (
	rules     *validate.Validator
	rulesOnce sync.Once
)

// handbook rules; every one accepts an empty value, pair with required
// when the field must be present.
func validator() *validate.Validator {
	rulesOnce.Do(func() {
		rules = validate.New(validate.WithStopOnFirstError())
		rules.RegisterRuleFunc("httpurl", blankOr(IsValidHTTPURL), "httpurl")
		rules.RegisterRuleFunc("mediaurl", blankOr(IsValidMediaURL), "mediaurl")
		rules.RegisterRuleFunc("slug", blankOr(content.ValidSlug), "slug")
		rules.RegisterRuleFunc("archive", blankOr(func(s string) bool {
			return content.ValidateArchive(s) == nil
		}), "archive")
	})
	return rules
}

func blankOr(check func(string) bool) func(any) bool {
	return func(value any) bool {
		s, ok := value.(string)
		return ok && (strings.TrimSpace(s) == "" || check(s))
	}
}

// Problems lists every failed rule on s.
func Problems(s any) []Problem {
	err := validator().Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		return []Problem{{Message: "입력 값을 확인할 수 없습니다."}}
	}
	labels := labelsOf(s)
	out := make([]Problem, 0, len(errs))
	for _, e := range errs {
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		out = append(out, Problem{
			Field:   e.Field,
			Label:   label,
			Rule:    e.Rule,
			Message: message(label, e.Rule, e.Param),
		})
	}
	return out
}

// Check returns the first problem's message, or "" when s is valid.
func Check(s any) string {
	if p := Problems(s); len(p) > 0 {
		return p[0].Message
	}
	return ""
}

// labelsOf maps field names (json name when tagged) to their label tag.
func labelsOf(s any) map[string]string {
	v := reflect.Indirect(reflect.ValueOf(s))
	if v.Kind() != reflect.Struct {
		return nil
	}
	labels := map[string]string{}
	for _, f := range reflect.VisibleFields(v.Type()) {
		label := f.Tag.Get("label")
		if label == "" {
			continue
		}
		labels[f.Name] = label
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			labels[name] = label
		}
	}
	return labels
}

func message(label, rule, param string) string {
	switch rule {
	case "required":
		return label + "을(를) 입력하세요."
	case "oneof", "enum":
		return label + "은(는) 다음 중 하나여야 합니다: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + "은(는) " + param + "자 이상이어야 합니다."
	case "max":
		return label + "은(는) " + param + "자 이하여야 합니다."
	case "httpurl":
		return label + "은(는) http:// 또는 https://로 시작해야 합니다."
	case "mediaurl":
		return label + "은(는) URL 또는 /로 시작하는 경로여야 합니다."
	case "slug":
		return label + "은(는) 영문 소문자, 숫자, 하이픈만 사용할 수 있습니다."
	case "archive":
		return label + "이(가) 올바른 JSON이 아닙니다."
	}
	return label + " 값이 올바르지 않습니다."
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidMediaURL accepts an http(s) URL or a site-relative path such as
// "/assets/img/office.jpg". Protocol-relative "//host" paths are rejected.
func IsValidMediaURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		_, err := url.Parse(s)
		return err == nil
	}
	return IsValidHTTPURL(s)
}
