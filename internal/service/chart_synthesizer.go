package service

import (
	"math/rand/v2"
	"time"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
)

// ChartSource produces the dashboard chart series for a portfolio value.
// ChartSynthesizer is the placeholder implementation until a real portfolio
// price history is available.
type ChartSource interface {
	Synthesize(totalValue float64) map[model.TimeRange][]model.ChartDataPoint
}

// rangeConfig drives the synthetic walk of one chart range.
type rangeConfig struct {
	Days       int
	SeedFactor float64
	Volatility float64
}

var rangeConfigs = map[model.TimeRange]rangeConfig{
	model.Range1D:  {Days: 1, SeedFactor: 0.99, Volatility: 0.01},
	model.Range7D:  {Days: 7, SeedFactor: 0.98, Volatility: 0.02},
	model.Range1M:  {Days: 30, SeedFactor: 0.95, Volatility: 0.03},
	model.RangeYTD: {Days: 365, SeedFactor: 0.92, Volatility: 0.05},
	model.Range1Y:  {Days: 365, SeedFactor: 0.90, Volatility: 0.05},
}

// RangeDays returns the number of days covered by a chart range.
func RangeDays(r model.TimeRange) int {
	return rangeConfigs[r].Days
}

// ChartSynthesizer generates demo chart series with a multiplicative random walk
// anchored slightly below the current portfolio value. The output is not
// reproducible and carries no statistical meaning.
type ChartSynthesizer struct {
	rand func() float64
	now  func() time.Time
}

// NewChartSynthesizer creates a ChartSynthesizer using non-seeded randomness and the wall clock.
func NewChartSynthesizer() *ChartSynthesizer {
	return &ChartSynthesizer{
		rand: rand.Float64,
		now:  time.Now,
	}
}

// NewChartSynthesizerWith creates a ChartSynthesizer with an explicit random
// source and clock, used by tests and tooling that need stable output.
func NewChartSynthesizerWith(random func() float64, now func() time.Time) *ChartSynthesizer {
	return &ChartSynthesizer{rand: random, now: now}
}

// Synthesize returns one series per time range. A zero portfolio value yields
// flat zero series; each series has RangeDays+1 points ending today.
func (s *ChartSynthesizer) Synthesize(totalValue float64) map[model.TimeRange][]model.ChartDataPoint {
	today := s.now()
	out := make(map[model.TimeRange][]model.ChartDataPoint, len(rangeConfigs))
	for r, cfg := range rangeConfigs {
		if totalValue == 0 {
			out[r] = s.walk(today, cfg.Days, 0, 0)
			continue
		}
		out[r] = s.walk(today, cfg.Days, totalValue*cfg.SeedFactor, cfg.Volatility)
	}
	return out
}

func (s *ChartSynthesizer) walk(today time.Time, days int, initialValue, volatility float64) []model.ChartDataPoint {
	points := make([]model.ChartDataPoint, 0, days+1)
	value := initialValue

	for i := days; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)

		// Weekends move half as much
		dailyVolatility := volatility
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			dailyVolatility = volatility * 0.5
		}

		value *= 1 + (s.rand()-0.5)*dailyVolatility

		points = append(points, model.ChartDataPoint{
			Date:  date.Format("02/01"),
			Value: value,
		})
	}
	return points
}

// SeriesPerformance returns the change between the first and last points of a series.
func SeriesPerformance(points []model.ChartDataPoint) model.SeriesPerformance {
	if len(points) < 2 {
		return model.SeriesPerformance{}
	}
	start := points[0].Value
	end := points[len(points)-1].Value
	perf := model.SeriesPerformance{Value: end - start}
	if start != 0 {
		perf.Percentage = (end - start) / start * 100
	}
	return perf
}
