package models

// Canonical values for normalized listing fields. The canonical forms are the
// Bulgarian terms used by the source sites themselves, so processed CSV files
// stay directly comparable with the raw data. Free text that resolves to none
// of these maps to the Unknown sentinel, never to an empty drop.

// Unknown is the sentinel for any enum field that could not be resolved.
const Unknown = "unknown"

// Currency of the price as advertised on the site.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyBGN Currency = "BGN"
)

// OfferType distinguishes sale from rental offers.
type OfferType string

const (
	OfferSale        OfferType = "продава"
	OfferRent        OfferType = "наем"
	OfferTypeUnknown OfferType = Unknown
)

// PropertyType is the advertised kind of property.
type PropertyType string

const (
	PropertyStudio          PropertyType = "студио"
	PropertyOneRoom         PropertyType = "едностаен"
	PropertyTwoRoom         PropertyType = "двустаен"
	PropertyThreeRoom       PropertyType = "тристаен"
	PropertyFourRoom        PropertyType = "четиристаен"
	PropertyMultiRoom       PropertyType = "многостаен"
	PropertyMaisonette      PropertyType = "мезонет"
	PropertyLand            PropertyType = "земя"
	PropertyHouse           PropertyType = "къща"
	PropertyOffice          PropertyType = "офис"
	PropertyStudioApartment PropertyType = "ателие"
	PropertyGarage          PropertyType = "гараж"
	PropertyParking         PropertyType = "паркомясто"
	PropertyTypeUnknown     PropertyType = Unknown
)

// City is a major Bulgarian city covered by the source sites.
type City string

const (
	CitySofia   City = "София"
	CityPlovdiv City = "Пловдив"
	CityVarna   City = "Варна"
	CityBurgas  City = "Бургас"
	CityUnknown City = Unknown
)

// Neighborhood is a canonical neighborhood name. Sofia and Plovdiv share the
// type; resolution is city-aware and lives in the services alias tables.
type Neighborhood string

const NeighborhoodUnknown Neighborhood = Unknown

// Sofia neighborhoods.
const (
	Lozenets          Neighborhood = "Лозенец"
	Center            Neighborhood = "Център"
	IvanVazov         Neighborhood = "Иван Вазов"
	Oborishte         Neighborhood = "Оборище"
	Dianabad          Neighborhood = "Дианабад"
	Iztok             Neighborhood = "Изток"
	Izgrev            Neighborhood = "Изгрев"
	Yavorov           Neighborhood = "Яворов"
	Borovo            Neighborhood = "Борово"
	GotseDelchev      Neighborhood = "Гоце Делчев"
	Strelbishte       Neighborhood = "Стрелбище"
	Hipodruma         Neighborhood = "Хиподрума"
	Hladilnika        Neighborhood = "Хладилника"
	BeliteBrezi       Neighborhood = "Белите брези"
	Vitosha           Neighborhood = "Витоша"
	ManastirskiLivadi Neighborhood = "Манастирски ливади"
	StudentskiGrad    Neighborhood = "Студентски град"
	Mladost           Neighborhood = "Младост"
	Mladost1          Neighborhood = "Младост 1"
	Mladost2          Neighborhood = "Младост 2"
	Mladost3          Neighborhood = "Младост 3"
	Mladost4          Neighborhood = "Младост 4"
	Druzhba           Neighborhood = "Дружба"
	Druzhba1          Neighborhood = "Дружба 1"
	Druzhba2          Neighborhood = "Дружба 2"
	Lyulin            Neighborhood = "Люлин"
	Nadezhda          Neighborhood = "Надежда"
	Nadezhda1         Neighborhood = "Надежда 1"
	Nadezhda2         Neighborhood = "Надежда 2"
	Nadezhda3         Neighborhood = "Надежда 3"
	Nadezhda4         Neighborhood = "Надежда 4"
	Slatina           Neighborhood = "Слатина"
	GeoMilev          Neighborhood = "Гео Милев"
	Reduta            Neighborhood = "Редута"
	Poduyane          Neighborhood = "Подуяне"
	KrastovaVada      Neighborhood = "Кръстова вада"
	MalinovaDolina    Neighborhood = "Малинова долина"
	Dragalevtsi       Neighborhood = "Драгалевци"
	Boyana            Neighborhood = "Бояна"
	Simeonovo         Neighborhood = "Симеоново"
	Knyazhevo         Neighborhood = "Княжево"
	OvchaKupel        Neighborhood = "Овча купел"
	KrasnoSelo        Neighborhood = "Красно село"
	Lagera            Neighborhood = "Лагера"
	Bukston           Neighborhood = "Бъкстон"
	Pavlovo           Neighborhood = "Павлово"
	HadjiDimitar      Neighborhood = "Хаджи Димитър"
	Levski            Neighborhood = "Левски"
	LevskiG           Neighborhood = "Левски Г"
	LevskiV           Neighborhood = "Левски В"
	SuhaReka          Neighborhood = "Сухата река"
	Banishora         Neighborhood = "Банишора"
	DoktorskiPametnik Neighborhood = "Докторски паметник"
	Darvenitsa          Neighborhood = "Дървеница"
	Musagenitsa         Neighborhood = "Мусагеница"
	MeditsinskaAkademia Neighborhood = "Медицинска академия"
	BorisovaGradina     Neighborhood = "Борисова градина"
	KrivaReka           Neighborhood = "Крива река"
	ModernoPredgradie   Neighborhood = "Модерно предградие"
	ZonaB5              Neighborhood = "Зона Б-5"
	ZonaB18             Neighborhood = "Зона Б-18"
	ZonaB19             Neighborhood = "Зона Б-19"
	SvetaTroitsa        Neighborhood = "Света Троица"
	Serdika             Neighborhood = "Сердика"
	Triagalnika         Neighborhood = "Триъгълника"
	Poligona            Neighborhood = "Полигона"
	Motopista           Neighborhood = "Мотописта"
	Svoboda             Neighborhood = "Свобода"
	Tolstoy             Neighborhood = "Толстой"
	FondoviZhilishta    Neighborhood = "Фондови жилища"
	ZapadenPark         Neighborhood = "Западен парк"
	Razsadnika          Neighborhood = "Разсадника"
	Karpuzitsa          Neighborhood = "Карпузица"
	Ilinden             Neighborhood = "Илинден"
	Benkovski           Neighborhood = "Бенковски"
	Orlandovtsi         Neighborhood = "Орландовци"
	Malashevtsi         Neighborhood = "Малашевци"
	GornaBanya          Neighborhood = "Горна баня"
	Bankya              Neighborhood = "Банкя"
	Ilientsi            Neighborhood = "Илиянци"
	Vrazhdebna          Neighborhood = "Враждебна"
	Botunets            Neighborhood = "Ботунец"
	Pancharevo          Neighborhood = "Панчарево"
	Bistritsa           Neighborhood = "Бистрица"
	Germana             Neighborhood = "Германа"
)

// Plovdiv neighborhoods.
const (
	Kamenitsa1       Neighborhood = "Каменица 1"
	Kamenitsa2       Neighborhood = "Каменица 2"
	Marasha          Neighborhood = "Мараша"
	MladezhkiHalm    Neighborhood = "Младежки хълм"
	Karshiyaka       Neighborhood = "Кършияка"
	Trakia           Neighborhood = "Тракия"
	Smirnenski       Neighborhood = "Смирненски"
	GrebnaBaza       Neighborhood = "Гребна база"
	Vastanicheski    Neighborhood = "Въстанически"
	HristoBotev      Neighborhood = "Христо Ботев"
	Yuzhen           Neighborhood = "Южен"
	KyuchukParizh    Neighborhood = "Кючук Париж"
	Gagarin          Neighborhood = "Гагарин"
	ZaharnaFabrika   Neighborhood = "Захарна фабрика"
	TsentralnaGara        Neighborhood = "Централна гара"
	Belomorski            Neighborhood = "Беломорски"
	VMI                   Neighborhood = "ВМИ"
	PeshterskoShose       Neighborhood = "Пещерско шосе"
	OtdihIKultura         Neighborhood = "Отдих и култура"
	RogoshkoShose         Neighborhood = "Рогошко шосе"
	Bunardzhika           Neighborhood = "Бунарджика"
	KarlovskoShose        Neighborhood = "Карловско шосе"
	TodorKableshkov       Neighborhood = "Тодор Каблешков"
	TsarSimeon            Neighborhood = "Цар Симеон"
	IndustrialnaZona      Neighborhood = "Индустриална зона"
	Batak                 Neighborhood = "Батак"
	PlovdivskiUniversitet Neighborhood = "Пловдивски университет"
	Sadiyski              Neighborhood = "Съдийски"
	Kapana                Neighborhood = "Капана"
	Filipovo              Neighborhood = "Филипово"
	Proslav               Neighborhood = "Прослав"
	Komatevo              Neighborhood = "Коматево"
	Ostromila             Neighborhood = "Остромила"
	Stolipinovo           Neighborhood = "Столипиново"
	HristoSmirnenski      Neighborhood = "Христо Смирненски"
)

// Floor sentinels. Regular floors are positive, basements negative.
const (
	FloorGround   = 0    // "партер"
	FloorBasement = -1   // "сутерен"
	FloorAttic    = 1000 // "таван"/"последен" without a number
)
