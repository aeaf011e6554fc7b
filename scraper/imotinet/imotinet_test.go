package imotinet

import (
	"testing"

	"estate-scraper/scraper"
)

const fixturePage = `<html><body>
<ul>
<li class="clearfix">
  <h3>Продава Двустаен апартамент, 65 кв.м</h3>
  <p>реклама</p>
  <p>Южен двустаен апартамент до метростанция.</p>
  <a class="box-link" href="/obiavi/prodazhbi/12345"></a>
  <strong class="price">130 000 EUR</strong>
  <span class="location">гр. София, Лозенец</span>
  <span class="re-offer-type">Явлена</span>
  <span class="pic-video-info-number">8</span>
  <ul class="parameters"><li>Етаж: 3</li><li>2000 EUR/м²</li></ul>
</li>
</ul>
<nav class="paginator"><a class="last-page">17</a></nav>
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

	listings, err := ext.Extract(doc, "https://www.imoti.net/bg/obiavi/r/prodava/sofia?page=1")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("listings: got %d, want 1", len(listings))
	}

	got := listings[0]
	if got.Title != "Продава Двустаен апартамент, 65 кв.м" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.AreaText != "65 кв.м" {
		t.Errorf("area text: got %q", got.AreaText)
	}
	if got.FloorText != "Етаж: 3" {
		t.Errorf("floor text: got %q", got.FloorText)
	}
	if got.DetailsURL != "https://www.imoti.net/obiavi/prodazhbi/12345" {
		t.Errorf("details url: got %q", got.DetailsURL)
	}
	if got.Description != "Южен двустаен апартамент до метростанция." {
		t.Errorf("description: got %q", got.Description)
	}
	if got.Agency != "Явлена" {
		t.Errorf("agency: got %q", got.Agency)
	}
}

func TestNextPageURL(t *testing.T) {
	ext := &Extractor{}
	doc := mustParse(t, fixturePage)

	got := ext.NextPageURL(doc, "https://www.imoti.net/bg/obiavi/r/prodava/sofia?page=1", 2)
	want := "https://www.imoti.net/bg/obiavi/r/prodava/sofia?page=2"
	if got != want {
		t.Errorf("NextPageURL = %q, want %q", got, want)
	}

	if got := ext.NextPageURL(doc, "https://www.imoti.net/bg/obiavi/r/prodava/sofia?page=17", 18); got != "" {
		t.Errorf("expected stop past last page, got %q", got)
	}

	got = ext.NextPageURL(doc, "https://www.imoti.net/bg/obiavi/r/prodava/sofia", 2)
	want = "https://www.imoti.net/bg/obiavi/r/prodava/sofia?page=2"
	if got != want {
		t.Errorf("NextPageURL without param = %q, want %q", got, want)
	}
}
