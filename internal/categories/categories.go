// Package categories holds the closed table of article categories.
package categories

// Category is a known category id with its display label.
type Category struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var table = []Category{
	{ID: "space", Label: "우주", Description: "무한한 우주의 신비를 탐험하는 여정"},
	{ID: "brain", Label: "뇌", Description: "인간 뇌의 복잡성과 의식의 비밀"},
	{ID: "life", Label: "생명", Description: "지구 생명의 다양성과 진화의 이야기"},
	{ID: "ai", Label: "AI", Description: "인공지능이 여는 새로운 시대"},
	{ID: "math", Label: "수학", Description: "자연을 이해하는 수학적 언어"},
}

// All returns the table in display order.
func All() []Category {
	out := make([]Category, len(table))
	copy(out, table)
	return out
}

// Lookup returns the category for id. Ids outside the table have no label.
func Lookup(id string) (Category, bool) {
	for _, c := range table {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Label returns the display label for id, or "" when id is unknown.
func Label(id string) string {
	c, _ := Lookup(id)
	return c.Label
}
