package scraper

import "testing"

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"absolute untouched", "https://www.imot.bg", "https://www.imot.bg/obiavi/1", "https://www.imot.bg/obiavi/1"},
		{"protocol relative", "https://www.imot.bg", "//www.imot.bg/obiavi/1", "https://www.imot.bg/obiavi/1"},
		{"site relative", "https://www.imoti.net", "/obiavi/55", "https://www.imoti.net/obiavi/55"},
		{"bare path", "https://homes.bg", "offer-12", "https://homes.bg/offer-12"},
		{"empty href", "https://homes.bg", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AbsoluteURL(tt.base, tt.href); got != tt.want {
				t.Errorf("AbsoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}

func TestParseHTML(t *testing.T) {
	doc, err := ParseHTML(`<html><body><div class="item">one</div></body></html>`)
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if doc.HTML == nil {
		t.Fatal("HTML not parsed")
	}
	if got := doc.HTML.Find("div.item").Text(); got != "one" {
		t.Errorf("selector text: got %q, want %q", got, "one")
	}
}
