package render

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// fixedHues maps exact title and role keywords to badge hues. It is checked
// before falling back to the hash palette.
var fixedHues = map[string]int{
	"대표":   0,
	"대표이사": 0,
	"이사":   280,
	"본부장":  20,
	"실장":   20,
	"팀장":   210,
	"리더":   210,
	"파트장":  190,
	"매니저":  160,
	"책임":   260,
	"선임":   120,
	"사원":   45,
	"인턴":   330,
	"정규직":  150,
	"계약직":  30,
}

// huePalette is the bucket set hashed text falls into.
var huePalette = []int{210, 160, 260, 30, 330, 190, 120, 45}

// Hue returns the badge hue (0-359) for text. The result depends only on
// the trimmed text.
func Hue(text string) int {
	t := strings.TrimSpace(text)
	if h, ok := fixedHues[t]; ok {
		return h
	}
	return huePalette[xxhash.Sum64String(t)%uint64(len(huePalette))]
}
