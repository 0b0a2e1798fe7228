package extract

import (
	"testing"
)

func TestSplitPages(t *testing.T) {
	t.Run("form feeds delimit pages", func(t *testing.T) {
		pages := splitPages("first page text\fsecond page text\fthird page text")
		if len(pages) != 3 {
			t.Fatalf("got %d pages, want 3", len(pages))
		}
		for i, p := range pages {
			if p.Number != i+1 {
				t.Errorf("page %d numbered %d", i, p.Number)
			}
		}
		if pages[1].Text != "second page text" {
			t.Errorf("page 2 text = %q", pages[1].Text)
		}
	})

	t.Run("no separator yields one page", func(t *testing.T) {
		pages := splitPages("just one page of text")
		if len(pages) != 1 || pages[0].Number != 1 {
			t.Fatalf("got %+v, want single page 1", pages)
		}
	})

	t.Run("trailing form feed is not a page", func(t *testing.T) {
		pages := splitPages("page one\fpage two\f")
		if len(pages) != 2 {
			t.Fatalf("got %d pages, want 2", len(pages))
		}
	})

	t.Run("interior blank page keeps numbering", func(t *testing.T) {
		pages := splitPages("page one\f\fpage three")
		if len(pages) != 3 {
			t.Fatalf("got %d pages, want 3", len(pages))
		}
		if pages[2].Text != "page three" || pages[2].Number != 3 {
			t.Errorf("page 3 = %+v", pages[2])
		}
	})

	t.Run("empty body yields no pages", func(t *testing.T) {
		if pages := splitPages("  \n "); len(pages) != 0 {
			t.Fatalf("got %d pages, want 0", len(pages))
		}
	})
}
