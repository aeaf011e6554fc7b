package services

import (
	"sort"
	"strings"

	"estate-scraper/models"
)

// aliasTable maps lowercase alias strings to a canonical value and keeps
// its keys ordered longest first, so "младост 4" wins over "младост" when
// both occur in the same text.
type aliasTable[V ~string] struct {
	values map[string]V
	keys   []string
}

func newAliasTable[V ~string](values map[string]V) *aliasTable[V] {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &aliasTable[V]{values: values, keys: keys}
}

// findExact looks the trimmed lowercase text up as a whole.
func (t *aliasTable[V]) findExact(text string) (V, bool) {
	v, ok := t.values[strings.ToLower(strings.TrimSpace(text))]
	return v, ok
}

// findInText scans text for any alias as a substring, longest first.
func (t *aliasTable[V]) findInText(text string) (V, bool) {
	if text == "" {
		var zero V
		return zero, false
	}
	lower := strings.ToLower(text)
	for _, k := range t.keys {
		if strings.Contains(lower, k) {
			return t.values[k], true
		}
	}
	var zero V
	return zero, false
}

var offerTypeAliases = newAliasTable(map[string]models.OfferType{
	// Bulgarian text
	"продава":       models.OfferSale,
	"продажба":      models.OfferSale,
	"продаван":      models.OfferSale,
	"за продажба":   models.OfferSale,
	"продажби":      models.OfferSale,
	"наем":          models.OfferRent,
	"под наем":      models.OfferRent,
	"дава под наем": models.OfferRent,
	"наеми":         models.OfferRent,
	// URL patterns, transliterated
	"prodava":       models.OfferSale,
	"prodajba":      models.OfferSale,
	"prodazhba":     models.OfferSale,
	"prodazhbi":     models.OfferSale,
	"prodajbi":      models.OfferSale,
	"naem":          models.OfferRent,
	"pod-naem":      models.OfferRent,
	"dava-pod-naem": models.OfferRent,
	"naemi":         models.OfferRent,
	// JSON API values
	"sell":          models.OfferSale,
	"apartmentsell": models.OfferSale,
	"housesell":     models.OfferSale,
	"landsell":      models.OfferSale,
	"landagro":      models.OfferSale,
	"rent":          models.OfferRent,
	"apartmentrent": models.OfferRent,
	"houserent":     models.OfferRent,
})

var propertyTypeAliases = newAliasTable(map[string]models.PropertyType{
	// Bulgarian text
	"студио":           models.PropertyStudio,
	"едностаен":        models.PropertyOneRoom,
	"1-стаен":          models.PropertyOneRoom,
	"1 стаен":          models.PropertyOneRoom,
	"двустаен":         models.PropertyTwoRoom,
	"2-стаен":          models.PropertyTwoRoom,
	"2 стаен":          models.PropertyTwoRoom,
	"тристаен":         models.PropertyThreeRoom,
	"3-стаен":          models.PropertyThreeRoom,
	"3 стаен":          models.PropertyThreeRoom,
	"четиристаен":      models.PropertyFourRoom,
	"4-стаен":          models.PropertyFourRoom,
	"4 стаен":          models.PropertyFourRoom,
	"многостаен":       models.PropertyMultiRoom,
	"5-стаен":          models.PropertyMultiRoom,
	"5 стаен":          models.PropertyMultiRoom,
	"мезонет":          models.PropertyMaisonette,
	"мезонети":         models.PropertyMaisonette,
	"земя":             models.PropertyLand,
	"земеделска":       models.PropertyLand,
	"земеделска земя":  models.PropertyLand,
	"парцел":           models.PropertyLand,
	"къща":             models.PropertyHouse,
	"вила":             models.PropertyHouse,
	"офис":             models.PropertyOffice,
	"ателие":           models.PropertyStudioApartment,
	"гараж":            models.PropertyGarage,
	"паркомясто":       models.PropertyParking,
	// URL patterns, transliterated
	"studio":           models.PropertyStudio,
	"ednostaen":        models.PropertyOneRoom,
	"ednostayn":        models.PropertyOneRoom,
	"ednostayni":       models.PropertyOneRoom,
	"dvustaen":         models.PropertyTwoRoom,
	"dvustayn":         models.PropertyTwoRoom,
	"dvustayni":        models.PropertyTwoRoom,
	"dvustaini":        models.PropertyTwoRoom,
	"tristaen":         models.PropertyThreeRoom,
	"tristayn":         models.PropertyThreeRoom,
	"tristayni":        models.PropertyThreeRoom,
	"tristaini":        models.PropertyThreeRoom,
	"chetiristaen":     models.PropertyFourRoom,
	"chetiristayn":     models.PropertyFourRoom,
	"chetiristayni":    models.PropertyFourRoom,
	"chetiristaini":    models.PropertyFourRoom,
	"mnogostaen":       models.PropertyMultiRoom,
	"mnogostayn":       models.PropertyMultiRoom,
	"mnogostayni":      models.PropertyMultiRoom,
	"mezonet":          models.PropertyMaisonette,
	"mezoneti":         models.PropertyMaisonette,
	"zemedelska":       models.PropertyLand,
	"zemedelski-zemi":  models.PropertyLand,
	"zemya":            models.PropertyLand,
	"kashta":           models.PropertyHouse,
	"kashti":           models.PropertyHouse,
	"ofis":             models.PropertyOffice,
	"atelie":           models.PropertyStudioApartment,
	"garazh":           models.PropertyGarage,
	"parkomyasto":      models.PropertyParking,
})

var cityAliases = newAliasTable(map[string]models.City{
	"софия":        models.CitySofia,
	"гр. софия":    models.CitySofia,
	"град софия":   models.CitySofia,
	"гр.софия":     models.CitySofia,
	"пловдив":      models.CityPlovdiv,
	"гр. пловдив":  models.CityPlovdiv,
	"град пловдив": models.CityPlovdiv,
	"гр.пловдив":   models.CityPlovdiv,
	"варна":        models.CityVarna,
	"гр. варна":    models.CityVarna,
	"град варна":   models.CityVarna,
	"бургас":       models.CityBurgas,
	"гр. бургас":   models.CityBurgas,
	"град бургас":  models.CityBurgas,
	// Transliterated
	"sofia":        models.CitySofia,
	"sofiya":       models.CitySofia,
	"grad-sofiya":  models.CitySofia,
	"grad-sofia":   models.CitySofia,
	"plovdiv":      models.CityPlovdiv,
	"grad-plovdiv": models.CityPlovdiv,
	"varna":        models.CityVarna,
	"grad-varna":   models.CityVarna,
	"burgas":       models.CityBurgas,
	"grad-burgas":  models.CityBurgas,
})

var currencyAliases = map[string]models.Currency{
	"€":    models.CurrencyEUR,
	"eur":  models.CurrencyEUR,
	"евро": models.CurrencyEUR,
	"euro": models.CurrencyEUR,
	"лв":   models.CurrencyBGN,
	"лв.":  models.CurrencyBGN,
	"bgn":  models.CurrencyBGN,
	"лева": models.CurrencyBGN,
}

var sofiaNeighborhoodAliases = newAliasTable(map[string]models.Neighborhood{
	"лозенец":             models.Lozenets,
	"кв. лозенец":         models.Lozenets,
	"кв.лозенец":          models.Lozenets,
	"център":              models.Center,
	"центъра":             models.Center,
	"иван вазов":          models.IvanVazov,
	"ив. вазов":           models.IvanVazov,
	"ив.вазов":            models.IvanVazov,
	"оборище":             models.Oborishte,
	"дианабад":            models.Dianabad,
	"изток":               models.Iztok,
	"изгрев":              models.Izgrev,
	"яворов":              models.Yavorov,
	"борово":              models.Borovo,
	"гоце делчев":         models.GotseDelchev,
	"г. делчев":           models.GotseDelchev,
	"г.делчев":            models.GotseDelchev,
	"стрелбище":           models.Strelbishte,
	"хиподрума":           models.Hipodruma,
	"хладилника":          models.Hladilnika,
	"пз хладилника":       models.Hladilnika,
	"белите брези":        models.BeliteBrezi,
	"бели брези":          models.BeliteBrezi,
	"витоша":              models.Vitosha,
	"манастирски ливади":  models.ManastirskiLivadi,
	"студентски град":     models.StudentskiGrad,
	"студентски":          models.StudentskiGrad,
	"младост":             models.Mladost,
	"младост 1":           models.Mladost1,
	"младост 2":           models.Mladost2,
	"младост 3":           models.Mladost3,
	"младост 4":           models.Mladost4,
	"дружба":              models.Druzhba,
	"дружба 1":            models.Druzhba1,
	"дружба 2":            models.Druzhba2,
	"люлин":               models.Lyulin,
	"надежда":             models.Nadezhda,
	"надежда 1":           models.Nadezhda1,
	"надежда 2":           models.Nadezhda2,
	"надежда 3":           models.Nadezhda3,
	"надежда 4":           models.Nadezhda4,
	"слатина":             models.Slatina,
	"гео милев":           models.GeoMilev,
	"редута":              models.Reduta,
	"подуяне":             models.Poduyane,
	"подуене":             models.Poduyane,
	"кръстова вада":       models.KrastovaVada,
	"малинова долина":     models.MalinovaDolina,
	"драгалевци":          models.Dragalevtsi,
	"бояна":               models.Boyana,
	"симеоново":           models.Simeonovo,
	"княжево":             models.Knyazhevo,
	"овча купел":          models.OvchaKupel,
	"красно село":         models.KrasnoSelo,
	"лагера":              models.Lagera,
	"бъкстон":             models.Bukston,
	"павлово":             models.Pavlovo,
	"хаджи димитър":       models.HadjiDimitar,
	"х. димитър":          models.HadjiDimitar,
	"левски":              models.Levski,
	"левски г":            models.LevskiG,
	"левски в":            models.LevskiV,
	"сухата река":         models.SuhaReka,
	"суха река":           models.SuhaReka,
	"банишора":            models.Banishora,
	"докторски паметник":  models.DoktorskiPametnik,
	"докторски":           models.DoktorskiPametnik,
	"дървеница":           models.Darvenitsa,
	"мусагеница":          models.Musagenitsa,
	"медицинска академия": models.MeditsinskaAkademia,
	"борисова градина":    models.BorisovaGradina,
	"крива река":          models.KrivaReka,
	"модерно предградие":  models.ModernoPredgradie,
	"зона б-5":            models.ZonaB5,
	"зона б5":             models.ZonaB5,
	"зона б-18":           models.ZonaB18,
	"зона б-19":           models.ZonaB19,
	"света троица":        models.SvetaTroitsa,
	"св. троица":          models.SvetaTroitsa,
	"сердика":             models.Serdika,
	"триъгълника":         models.Triagalnika,
	"полигона":            models.Poligona,
	"мотописта":           models.Motopista,
	"свобода":             models.Svoboda,
	"толстой":             models.Tolstoy,
	"фондови жилища":      models.FondoviZhilishta,
	"западен парк":        models.ZapadenPark,
	"разсадника":          models.Razsadnika,
	"карпузица":           models.Karpuzitsa,
	"илинден":             models.Ilinden,
	"бенковски":           models.Benkovski,
	"орландовци":          models.Orlandovtsi,
	"малашевци":           models.Malashevtsi,
	"христо смирненски":   models.HristoSmirnenski,
	"хр. смирненски":      models.HristoSmirnenski,
	"горна баня":          models.GornaBanya,
	"банкя":               models.Bankya,
	"илиянци":             models.Ilientsi,
	"враждебна":           models.Vrazhdebna,
	"ботунец":             models.Botunets,
	"панчарево":           models.Pancharevo,
	"бистрица":            models.Bistritsa,
	"германа":             models.Germana,
	// Transliterated
	"lozenets":           models.Lozenets,
	"tsentar":            models.Center,
	"centar":             models.Center,
	"ivan-vazov":         models.IvanVazov,
	"oborishte":          models.Oborishte,
	"dianabad":           models.Dianabad,
	"iztok":              models.Iztok,
	"izgrev":             models.Izgrev,
	"yavorov":            models.Yavorov,
	"borovo":             models.Borovo,
	"gotse-delchev":      models.GotseDelchev,
	"strelbishte":        models.Strelbishte,
	"hipodruma":          models.Hipodruma,
	"hladilnika":         models.Hladilnika,
	"vitosha":            models.Vitosha,
	"manastirski-livadi": models.ManastirskiLivadi,
	"studentski-grad":    models.StudentskiGrad,
	"mladost":            models.Mladost,
	"druzhba":            models.Druzhba,
	"lyulin":             models.Lyulin,
	"nadezhda":           models.Nadezhda,
	"slatina":            models.Slatina,
	"geo-milev":          models.GeoMilev,
	"reduta":             models.Reduta,
	"poduyane":           models.Poduyane,
	"krastova-vada":      models.KrastovaVada,
	"malinova-dolina":    models.MalinovaDolina,
	"dragalevtsi":        models.Dragalevtsi,
	"boyana":             models.Boyana,
	"simeonovo":          models.Simeonovo,
	"knyazhevo":          models.Knyazhevo,
	"ovcha-kupel":        models.OvchaKupel,
	"krasno-selo":        models.KrasnoSelo,
	"lagera":             models.Lagera,
	"bukston":            models.Bukston,
	"pavlovo":            models.Pavlovo,
	"hadji-dimitar":      models.HadjiDimitar,
	"levski":             models.Levski,
	"suha-reka":          models.SuhaReka,
	"banishora":          models.Banishora,
})

var plovdivNeighborhoodAliases = newAliasTable(map[string]models.Neighborhood{
	"център":                 models.Center,
	"центъра":                models.Center,
	"каменица 1":             models.Kamenitsa1,
	"каменица 2":             models.Kamenitsa2,
	"каменица":               models.Kamenitsa1,
	"мараша":                 models.Marasha,
	"младежки хълм":          models.MladezhkiHalm,
	"кършияка":               models.Karshiyaka,
	"тракия":                 models.Trakia,
	"смирненски":             models.Smirnenski,
	"христо смирненски":      models.HristoSmirnenski,
	"хр. смирненски":         models.Smirnenski,
	"гребна база":            models.GrebnaBaza,
	"въстанически":           models.Vastanicheski,
	"христо ботев":           models.HristoBotev,
	"хр. ботев":              models.HristoBotev,
	"южен":                   models.Yuzhen,
	"кючук париж":            models.KyuchukParizh,
	"гагарин":                models.Gagarin,
	"изгрев":                 models.Izgrev,
	"захарна фабрика":        models.ZaharnaFabrika,
	"централна гара":         models.TsentralnaGara,
	"беломорски":             models.Belomorski,
	"вми":                    models.VMI,
	"пещерско шосе":          models.PeshterskoShose,
	"отдих и култура":        models.OtdihIKultura,
	"рогошко шосе":           models.RogoshkoShose,
	"бунарджика":             models.Bunardzhika,
	"карловско шосе":         models.KarlovskoShose,
	"тодор каблешков":        models.TodorKableshkov,
	"цар симеон":             models.TsarSimeon,
	"индустриална зона":      models.IndustrialnaZona,
	"батак":                  models.Batak,
	"пловдивски университет": models.PlovdivskiUniversitet,
	"съдийски":               models.Sadiyski,
	"капана":                 models.Kapana,
	"филипово":               models.Filipovo,
	"прослав":                models.Proslav,
	"коматево":               models.Komatevo,
	"остромила":              models.Ostromila,
	"столипиново":            models.Stolipinovo,
	// Transliterated
	"tsentar":       models.Center,
	"centar":        models.Center,
	"kamenitsa":     models.Kamenitsa1,
	"marasha":       models.Marasha,
	"mladejki-halm": models.MladezhkiHalm,
	"karshiyaka":    models.Karshiyaka,
	"trakia":        models.Trakia,
	"smirnenski":    models.Smirnenski,
	"grebna-baza":   models.GrebnaBaza,
	"yuzhen":        models.Yuzhen,
	"gagarin":       models.Gagarin,
	"izgrev":        models.Izgrev,
	"kapana":        models.Kapana,
})

// knownAgencies maps lowercase agency names to their canonical forms.
var knownAgencies = map[string]string{
	"bulgarian properties": "Bulgarian Properties",
	"bulgarianproperties":  "Bulgarian Properties",
	"suprimmo":             "Suprimmo",
	"luximmo":              "Luximmo",
	"arco real estate":     "Arco Real Estate",
	"arco":                 "Arco Real Estate",
	"address":              "Address",
	"явлена":               "Явлена",
	"yavlena":              "Явлена",
	"мирела":               "Мирела",
	"mirela":               "Мирела",
	"имоти бг":             "Имоти БГ",
	"era":                  "ERA",
	"century 21":           "Century 21",
	"century21":            "Century 21",
	"re/max":               "RE/MAX",
	"remax":                "RE/MAX",
	"home tour":            "Home Tour",
	"imoti.net":            "Imoti.net",
	"homes.bg":             "Homes.bg",
	"imot.bg":              "Imot.bg",
	"частно лице":          "Частно лице",
	"частен":               "Частно лице",
	"private":              "Частно лице",
}
