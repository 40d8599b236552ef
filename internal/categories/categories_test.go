package categories

import "testing"

func TestLookup_Known(t *testing.T) {
	want := map[string]string{
		"space": "우주",
		"brain": "뇌",
		"life":  "생명",
		"ai":    "AI",
		"math":  "수학",
	}
	for id, label := range want {
		c, ok := Lookup(id)
		if !ok {
			t.Fatalf("%s: not found", id)
		}
		if c.Label != label {
			t.Errorf("%s: label = %q, want %q", id, c.Label, label)
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := Lookup("chemistry"); ok {
		t.Error("chemistry should not be in the table")
	}
	if Label("chemistry") != "" {
		t.Error("unknown id should have no label")
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].Label = "changed"
	if Label("space") != "우주" {
		t.Error("All must not expose the table")
	}
}
