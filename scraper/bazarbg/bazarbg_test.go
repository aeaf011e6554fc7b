package bazarbg

import (
	"testing"

	"estate-scraper/scraper"
)

const fixturePage = `<html><body>
<div class="listItemContainer">
  <a class="listItemLink" href="/obiava/7788/prodava-tristaen" title="Продава 3-СТАЕН, 85 кв.м, 5 ет." data-id="7788">
    <span class="price">165 000 лв.</span>
    <span class="location">гр. Пловдив, Кършияка</span>
    <span class="date">днес</span>
    <img class="cover" src="/p/1.jpg"><img class="lazy" src="/p/2.jpg">
  </a>
</div>
<div class="listItemContainer"><p>рекламен банер</p></div>
<div class="paging">
  <a class="btn current">1</a>
  <a class="btn not-current">2</a>
  <a class="btn not-current">9</a>
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

	listings, err := ext.Extract(doc, "https://bazar.bg/obiavi/prodazhba-apartamenti/plovdiv")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("listings: got %d, want 1 (banner container must be skipped)", len(listings))
	}

	got := listings[0]
	if got.Title != "Продава 3-СТАЕН, 85 кв.м, 5 ет." {
		t.Errorf("title: got %q", got.Title)
	}
	if got.PriceText != "165 000 лв." {
		t.Errorf("price text: got %q", got.PriceText)
	}
	if got.RefNo != "7788" {
		t.Errorf("ref no: got %q", got.RefNo)
	}
	if got.DetailsURL != "https://bazar.bg/obiava/7788/prodava-tristaen" {
		t.Errorf("details url: got %q", got.DetailsURL)
	}
	if got.PhotosText != "2" {
		t.Errorf("photos: got %q", got.PhotosText)
	}
}

func TestNextPageURL(t *testing.T) {
	ext := &Extractor{}
	doc := mustParse(t, fixturePage)

	got := ext.NextPageURL(doc, "https://bazar.bg/obiavi/prodazhba-apartamenti/plovdiv", 2)
	want := "https://bazar.bg/obiavi/prodazhba-apartamenti/plovdiv?page=2"
	if got != want {
		t.Errorf("NextPageURL = %q, want %q", got, want)
	}

	got = ext.NextPageURL(doc, want, 3)
	want = "https://bazar.bg/obiavi/prodazhba-apartamenti/plovdiv?page=3"
	if got != want {
		t.Errorf("NextPageURL = %q, want %q", got, want)
	}

	if got := ext.NextPageURL(doc, "https://bazar.bg/obiavi/prodazhba-apartamenti/plovdiv?page=9", 10); got != "" {
		t.Errorf("expected stop past last page, got %q", got)
	}

	empty := mustParse(t, `<html><body></body></html>`)
	if got := ext.NextPageURL(empty, "https://bazar.bg/obiavi", 2); got != "" {
		t.Errorf("expected stop on empty page, got %q", got)
	}
}
