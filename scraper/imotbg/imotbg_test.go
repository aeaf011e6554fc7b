package imotbg

import (
	"testing"

	"estate-scraper/scraper"
)

const fixturePage = `<html><body>
<span class="pageNumbersInfo">Страница 1 от 12</span>
<div class="item" id="ida11223344">
  <div class="price"><div>150 000 EUR</div></div>
  <a class="title" href="//www.imot.bg/obiavi/11223344">Продава 2-СТАЕН<location>град София, Лозенец</location></a>
  <div class="info">65 кв.м, 3-ти ет. от 8, тухла, с асансьор</div>
  <a class="photos">виж 12 снимки</a>
  <div class="seller"><a href="//www.imot.bg/yavlena"><div class="name">Явлена</div></a></div>
</div>
<div class="item" id="idb55667788">
  <div class="price"><div>95 000 EUR</div></div>
  <a class="title" href="//www.imot.bg/obiavi/55667788">Продава 1-СТАЕН<location>град София, Младост 1</location></a>
  <div class="info">42 кв.м, партер</div>
</div>
<div class="item" id="banner-top">
  <div class="info">Реклама</div>
</div>
</body></html>`

func mustParse(t *testing.T, body string) *scraper.Document {
	t.Helper()
	doc, err := scraper.ParseHTML(body)
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	return doc
}

func TestExtract(t *testing.T) {
	ext := &Extractor{}
	doc := mustParse(t, fixturePage)

	listings, err := ext.Extract(doc, "https://www.imot.bg/obiavi/prodazhbi/dvustaen/sofia")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// The banner item has no a.title anchor and must not be extracted.
	if len(listings) != 2 {
		t.Fatalf("listings: got %d, want 2", len(listings))
	}

	first := listings[0]
	if first.Title != "Продава 2-СТАЕН" {
		t.Errorf("title: got %q", first.Title)
	}
	if first.LocationText != "град София, Лозенец" {
		t.Errorf("location: got %q", first.LocationText)
	}
	if first.PriceText != "150 000 EUR" {
		t.Errorf("price text: got %q", first.PriceText)
	}
	if first.DetailsURL != "https://www.imot.bg/obiavi/11223344" {
		t.Errorf("details url: got %q", first.DetailsURL)
	}
	if first.RefNo != "11223344" {
		t.Errorf("ref no: got %q", first.RefNo)
	}
	if first.Agency != "Явлена" {
		t.Errorf("agency: got %q", first.Agency)
	}

	second := listings[1]
	if second.Agency != "" {
		t.Errorf("agency on bare item: got %q", second.Agency)
	}
	if second.RefNo != "55667788" {
		t.Errorf("ref no: got %q", second.RefNo)
	}
}

func TestNextPageURL(t *testing.T) {
	ext := &Extractor{}
	doc := mustParse(t, fixturePage)

	tests := []struct {
		name    string
		current string
		next    int
		want    string
	}{
		{"first page", "https://www.imot.bg/obiavi/prodazhbi/sofia", 2, "https://www.imot.bg/obiavi/prodazhbi/sofia/p-2"},
		{"replaces segment", "https://www.imot.bg/obiavi/prodazhbi/sofia/p-2", 3, "https://www.imot.bg/obiavi/prodazhbi/sofia/p-3"},
		{"keeps query", "https://www.imot.bg/obiavi/prodazhbi/sofia/p-2?order=1", 3, "https://www.imot.bg/obiavi/prodazhbi/sofia/p-3?order=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ext.NextPageURL(doc, tt.current, tt.next); got != tt.want {
				t.Errorf("NextPageURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextPageURLStopsOnEmptyPage(t *testing.T) {
	ext := &Extractor{}
	doc := mustParse(t, `<html><body><p>Няма намерени обяви</p></body></html>`)
	if got := ext.NextPageURL(doc, "https://www.imot.bg/obiavi/prodazhbi/sofia/p-12", 13); got != "" {
		t.Errorf("expected empty next page URL, got %q", got)
	}
}
