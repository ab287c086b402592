package render

import "github.com/dalemusser/stratahandbook/internal/app/system/markup"

// List is one level of a nested list.
type List struct {
	Style   markup.ListStyle
	Ordered bool
	Items   []ListItem
}

// ListItem is one rendered list entry. Sub is the nested list under it, if
// any.
type ListItem struct {
	Marker string
	Style  markup.ListStyle
	Spans  []markup.Span
	Sub    *List
}

// BuildList nests flat classified items by depth. An item deeper than its
// predecessor opens a sub-list under it, however large the jump.
func BuildList(items []markup.ListItem) *List {
	if len(items) == 0 {
		return &List{}
	}
	root, i := buildLevel(items, 0, items[0].Depth)
	// Items shallower than the first one stay at the top level.
	for i < len(items) {
		var more *List
		more, i = buildLevel(items, i, items[i].Depth)
		root.Items = append(root.Items, more.Items...)
	}
	return root
}

// buildLevel consumes items from i until one is shallower than depth,
// returning the list and the index of the first unconsumed item.
func buildLevel(items []markup.ListItem, i, depth int) (*List, int) {
	l := &List{Style: items[i].Style, Ordered: items[i].Ordered()}
	for i < len(items) {
		it := items[i]
		if it.Depth < depth && len(l.Items) > 0 {
			break
		}
		if it.Depth > depth && len(l.Items) > 0 {
			last := &l.Items[len(l.Items)-1]
			var sub *List
			sub, i = buildLevel(items, i, it.Depth)
			if last.Sub == nil {
				last.Sub = sub
			} else {
				last.Sub.Items = append(last.Sub.Items, sub.Items...)
			}
			continue
		}
		l.Items = append(l.Items, ListItem{
			Marker: Marker(it),
			Style:  it.Style,
			Spans:  markup.ParseInline(it.Text),
		})
		i++
	}
	return l, i
}

// Marker returns the display marker of an item: the bullet glyph for
// unordered items, otherwise the authored marker with its period.
func Marker(it markup.ListItem) string {
	if it.Style == markup.StyleBullet {
		return "•"
	}
	return it.Marker + "."
}
