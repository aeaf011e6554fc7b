package services

import (
	"math"
	"testing"
	"time"

	"estate-scraper/models"
	"estate-scraper/utils"
)

func newTestTransformer() *Transformer {
	return NewTransformer(DefaultBGNToEURRate, utils.NewLogger())
}

func TestTransformEndToEnd(t *testing.T) {
	tr := newTestTransformer()
	raw := models.RawListing{
		Site:         "imotbg",
		SearchURL:    "https://www.imot.bg/obiavi/prodazhbi/dvustaen/sofia",
		Title:        "Продава двустаен апартамент",
		PriceText:    "150000 EUR",
		LocationText: "София, Лозенец",
		AreaText:     "65 m2",
		FloorText:    "3",
		DetailsURL:   "https://www.imot.bg/obiavi/1a234567890",
		ScrapedAt:    time.Now(),
	}

	listing, err := tr.Transform(raw)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	if listing.Price == nil || *listing.Price != 150000 {
		t.Errorf("price: got %v, want 150000", listing.Price)
	}
	if listing.OriginalCurrency != models.CurrencyEUR {
		t.Errorf("currency: got %q, want EUR", listing.OriginalCurrency)
	}
	if listing.City != models.CitySofia {
		t.Errorf("city: got %q, want %q", listing.City, models.CitySofia)
	}
	if listing.Neighborhood != models.Lozenets {
		t.Errorf("neighborhood: got %q, want %q", listing.Neighborhood, models.Lozenets)
	}
	if listing.Area == nil || *listing.Area != 65 {
		t.Errorf("area: got %v, want 65", listing.Area)
	}
	if listing.Floor == nil || *listing.Floor != 3 {
		t.Errorf("floor: got %v, want 3", listing.Floor)
	}
	if listing.PricePerM2 == nil || math.Abs(*listing.PricePerM2-2307.69) > 0.01 {
		t.Errorf("price per m2: got %v, want ~2307.69", listing.PricePerM2)
	}
	if listing.OfferType != models.OfferSale {
		t.Errorf("offer type: got %q, want %q", listing.OfferType, models.OfferSale)
	}
	if listing.PropertyType != models.PropertyTwoRoom {
		t.Errorf("property type: got %q, want %q", listing.PropertyType, models.PropertyTwoRoom)
	}
	if listing.FingerprintHash == "" {
		t.Error("fingerprint hash not computed")
	}
}

func TestTransformConvertsBGN(t *testing.T) {
	tr := newTestTransformer()
	raw := models.RawListing{
		Site:       "imotinet",
		PriceText:  "150 000 лв.",
		DetailsURL: "https://www.imoti.net/obiavi/3344",
	}

	listing, err := tr.Transform(raw)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if listing.OriginalCurrency != models.CurrencyBGN {
		t.Errorf("currency: got %q, want BGN", listing.OriginalCurrency)
	}
	want := round2(150000 / DefaultBGNToEURRate)
	if listing.Price == nil || *listing.Price != want {
		t.Errorf("price: got %v, want %v", listing.Price, want)
	}
}

func TestTransformIdempotent(t *testing.T) {
	tr := newTestTransformer()
	raw := models.RawListing{
		Site:         "homesbg",
		Title:        "Тристаен, Кършияка",
		PriceText:    "120 000 €",
		LocationText: "Пловдив, Кършияка",
		AreaText:     "88.5 кв.м",
		DetailsURL:   "https://homes.bg/offer/5566",
	}

	first, err := tr.Transform(raw)
	if err != nil {
		t.Fatalf("first transform: %v", err)
	}
	second, err := tr.Transform(raw)
	if err != nil {
		t.Fatalf("second transform: %v", err)
	}
	if first.FingerprintHash != second.FingerprintHash {
		t.Errorf("fingerprints differ: %s vs %s", first.FingerprintHash, second.FingerprintHash)
	}
	if *first.Price != *second.Price || first.Neighborhood != second.Neighborhood {
		t.Error("repeated transform produced different listings")
	}
}

func TestTransformDegradesGracefully(t *testing.T) {
	tr := newTestTransformer()
	raw := models.RawListing{
		Site:         "imotbg",
		Title:        "Имот",
		PriceText:    "цена при запитване",
		LocationText: "с. Горни Окол",
		AreaText:     "N/A",
		FloorText:    "приземен",
		DetailsURL:   "https://www.imot.bg/obiavi/9z87654",
	}

	listing, err := tr.Transform(raw)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if listing.Price != nil {
		t.Errorf("price: got %v, want absent", listing.Price)
	}
	if listing.Area != nil {
		t.Errorf("area: got %v, want absent", listing.Area)
	}
	if listing.City != models.CityUnknown {
		t.Errorf("city: got %q, want unknown", listing.City)
	}
	if listing.Neighborhood != models.NeighborhoodUnknown {
		t.Errorf("neighborhood: got %q, want unknown", listing.Neighborhood)
	}
	if listing.PropertyType != models.PropertyTypeUnknown {
		t.Errorf("property type: got %q, want unknown", listing.PropertyType)
	}
}

func TestTransformRequiresDetailsURL(t *testing.T) {
	tr := newTestTransformer()
	_, err := tr.Transform(models.RawListing{Site: "imotbg", Title: "без адрес"})
	if err == nil {
		t.Fatal("expected error for record without details URL")
	}
	if _, ok := err.(*TransformError); !ok {
		t.Errorf("error type: got %T, want *TransformError", err)
	}
}

func TestTransformBatchCountsDropped(t *testing.T) {
	tr := newTestTransformer()
	raws := []models.RawListing{
		{Site: "imotbg", PriceText: "100 000 €", DetailsURL: "https://www.imot.bg/obiavi/1"},
		{Site: "imotbg", PriceText: "no url here"},
		{Site: "imotbg", PriceText: "90 000 €", DetailsURL: "https://www.imot.bg/obiavi/2"},
	}

	listings, dropped := tr.TransformBatch(raws)
	if len(listings) != 2 {
		t.Errorf("listings: got %d, want 2", len(listings))
	}
	if dropped != 1 {
		t.Errorf("dropped: got %d, want 1", dropped)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCity string
		wantNbh  string
	}{
		{"grad prefix with comma", "гр. София, Лозенец", "София", "Лозенец"},
		{"slash separator", "София / Лозенец", "София", "Лозенец"},
		{"plain comma", "Пловдив, Кършияка", "Пловдив", "Кършияка"},
		{"kv prefix stripped", "гр. София, кв. Изток", "София", "Изток"},
		{"city only", "гр. Варна", "Варна", ""},
		{"village prefix", "с. Бистрица", "Бистрица", ""},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, nbh := parseLocation(tt.input)
			if city != tt.wantCity || nbh != tt.wantNbh {
				t.Errorf("parseLocation(%q) = (%q, %q), want (%q, %q)",
					tt.input, city, nbh, tt.wantCity, tt.wantNbh)
			}
		})
	}
}

func TestNormalizeNeighborhoodCityAware(t *testing.T) {
	tests := []struct {
		name  string
		input string
		city  models.City
		want  models.Neighborhood
	}{
		{"sofia canonical", "Лозенец", models.CitySofia, models.Lozenets},
		{"sofia with prefix", "кв. Лозенец", models.CitySofia, models.Lozenets},
		{"sofia transliterated", "manastirski-livadi", models.CitySofia, models.ManastirskiLivadi},
		{"plovdiv", "Кършияка", models.CityPlovdiv, models.Karshiyaka},
		{"numbered wins over bare", "Младост 3", models.CitySofia, models.Mladost3},
		{"unknown city tries both", "Тракия", models.CityUnknown, models.Trakia},
		{"unresolved", "Никъде", models.CitySofia, models.NeighborhoodUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeNeighborhood(tt.input, tt.city); got != tt.want {
				t.Errorf("normalizeNeighborhood(%q, %q) = %q, want %q", tt.input, tt.city, got, tt.want)
			}
		})
	}
}

func TestExtractArea(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"56 кв.м", models.Float(56)},
		{"207.43 м²", models.Float(207.43)},
		{"Площ: 251,01 м²", models.Float(251.01)},
		{"65 m2", models.Float(65)},
		{"N/A", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := extractArea(tt.input)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("extractArea(%q) = %v, want absent", tt.input, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("extractArea(%q) = %v, want %v", tt.input, got, *tt.want)
		}
	}
}

func TestExtractFloor(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"Етаж: 3", models.Int(3)},
		{"6-ти ет.", models.Int(6)},
		{"ет. 4", models.Int(4)},
		{"3", models.Int(3)},
		{"партер", models.Int(models.FloorGround)},
		{"сутерен", models.Int(models.FloorBasement)},
		{"последен", models.Int(models.FloorAttic)},
		{"гараж в двора", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := extractFloor(tt.input)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("extractFloor(%q) = %v, want absent", tt.input, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("extractFloor(%q) = %v, want %v", tt.input, got, *tt.want)
		}
	}
}

func TestFloorAndTotalFloorsFromDescription(t *testing.T) {
	tr := newTestTransformer()
	raw := models.RawListing{
		Site:        "imotinet",
		Description: "Светъл апартамент на 4-ти етаж от 8, тухла",
		DetailsURL:  "https://www.imoti.net/obiavi/7788",
	}

	listing, err := tr.Transform(raw)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if listing.Floor == nil || *listing.Floor != 4 {
		t.Errorf("floor: got %v, want 4", listing.Floor)
	}
	if listing.TotalFloors == nil || *listing.TotalFloors != 8 {
		t.Errorf("total floors: got %v, want 8", listing.TotalFloors)
	}
}

func TestDetectWithoutVAT(t *testing.T) {
	if !detectWithoutVAT("255 000 € без ДДС") {
		t.Error("expected VAT-exclusive price to be detected")
	}
	if detectWithoutVAT("255 000 €") {
		t.Error("plain price flagged as VAT-exclusive")
	}
}

func TestNormalizeAgency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"yavlena", "Явлена"},
		{"RE/MAX", "RE/MAX"},
		{"remax", "RE/MAX"},
		{"  Имоти Експрес  ", "Имоти Експрес"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeAgency(tt.input); got != tt.want {
			t.Errorf("normalizeAgency(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
