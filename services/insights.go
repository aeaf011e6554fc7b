package services

import (
	"fmt"
	"sort"
	"strings"

	"estate-scraper/models"
	"estate-scraper/utils"
)

// CityInsight aggregates price statistics for one city.
type CityInsight struct {
	City          models.City
	Listings      int
	WithPrice     int
	AvgPrice      float64
	AvgPricePerM2 float64
	MinPrice      float64
	MaxPrice      float64
	MostExpensive *models.Listing
}

// InsightService computes per-city market statistics from processed
// listings.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate returns one insight per city, sorted by listing count
// descending. Listings without a resolved price only contribute to the
// listing count.
func (s *InsightService) Generate(listings []models.Listing) []CityInsight {
	byCity := make(map[models.City][]models.Listing)
	for _, l := range listings {
		byCity[l.City] = append(byCity[l.City], l)
	}

	insights := make([]CityInsight, 0, len(byCity))
	for city, group := range byCity {
		insights = append(insights, s.cityInsight(city, group))
	}
	sort.Slice(insights, func(i, j int) bool {
		if insights[i].Listings != insights[j].Listings {
			return insights[i].Listings > insights[j].Listings
		}
		return insights[i].City < insights[j].City
	})
	return insights
}

func (s *InsightService) cityInsight(city models.City, group []models.Listing) CityInsight {
	ins := CityInsight{City: city, Listings: len(group)}

	var priceSum, perM2Sum float64
	var perM2Count int
	for i := range group {
		l := &group[i]
		if l.Price == nil {
			continue
		}
		price := *l.Price
		ins.WithPrice++
		priceSum += price
		if ins.MinPrice == 0 || price < ins.MinPrice {
			ins.MinPrice = price
		}
		if price > ins.MaxPrice {
			ins.MaxPrice = price
			ins.MostExpensive = l
		}
		if l.PricePerM2 != nil {
			perM2Sum += *l.PricePerM2
			perM2Count++
		}
	}
	if ins.WithPrice > 0 {
		ins.AvgPrice = round2(priceSum / float64(ins.WithPrice))
	}
	if perM2Count > 0 {
		ins.AvgPricePerM2 = round2(perM2Sum / float64(perM2Count))
	}
	return ins
}

// Print logs a readable report of the generated insights.
func (s *InsightService) Print(insights []CityInsight) {
	s.logger.Info("===== Market Insights =====")
	for _, ins := range insights {
		s.logger.Info("%s: %d listings (%d priced), avg %.2f EUR, avg %.2f EUR/m2, range %.2f - %.2f",
			ins.City, ins.Listings, ins.WithPrice, ins.AvgPrice, ins.AvgPricePerM2, ins.MinPrice, ins.MaxPrice)
		if ins.MostExpensive != nil {
			s.logger.Info("  most expensive: %s (%s)",
				truncate(ins.MostExpensive.Title, 60), ins.MostExpensive.DetailsURL)
		}
	}
}

// Report renders the insights as plain text for the notification email.
func (s *InsightService) Report(insights []CityInsight) string {
	var b strings.Builder
	for _, ins := range insights {
		fmt.Fprintf(&b, "%s: %d listings, avg %.2f EUR, avg %.2f EUR/m2\n",
			ins.City, ins.Listings, ins.AvgPrice, ins.AvgPricePerM2)
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
