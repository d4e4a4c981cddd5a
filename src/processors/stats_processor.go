package processors

import (
	"math"

	"github.com/username/tourtally/backend/src/models"
)

// StatsProcessor computes summary statistics over any record set. It is a pure
// function of its input: the same set gives the same statistics whether it came
// straight from the store or from an in-memory filtered subset.
type StatsProcessor interface {
	Calculate(records []models.SaleRecord) *models.Statistics
}

type statsProcessorImpl struct{}

func NewStatsProcessor() StatsProcessor {
	return &statsProcessorImpl{}
}

// Calculate returns nil for an empty set; callers surface "no statistics"
// rather than a zero-filled object.
func (p *statsProcessorImpl) Calculate(records []models.SaleRecord) *models.Statistics {
	if len(records) == 0 {
		return nil
	}

	stats := &models.Statistics{TotalRecords: len(records)}
	var priceSum float64
	orders := make(map[string]struct{})

	for _, r := range records {
		if r.PaidAmount != nil {
			stats.TotalPaid += *r.PaidAmount
		}
		if r.GuideAmount != nil {
			stats.TotalGuide += *r.GuideAmount
		}
		if r.PlatformAmount != nil {
			stats.TotalPlatform += *r.PlatformAmount
		}
		if r.TicketPrice != nil {
			priceSum += *r.TicketPrice
		}
		if r.Quantity != nil {
			stats.TotalTickets += *r.Quantity
		}
		if r.OrderID != nil && *r.OrderID != "" {
			orders[*r.OrderID] = struct{}{}
		}
	}

	stats.AvgTicketPrice = roundToTwoDecimalPlaces(priceSum / float64(len(records)))
	stats.TotalPaid = roundToTwoDecimalPlaces(stats.TotalPaid)
	stats.TotalGuide = roundToTwoDecimalPlaces(stats.TotalGuide)
	stats.TotalPlatform = roundToTwoDecimalPlaces(stats.TotalPlatform)
	stats.UniqueOrders = len(orders)

	return stats
}

// roundToTwoDecimalPlaces rounds a float64 to 2 decimal places.
func roundToTwoDecimalPlaces(value float64) float64 {
	return math.Round(value*100) / 100
}
