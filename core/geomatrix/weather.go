package geomatrix

import (
	"context"
	"strings"
	"sync"
)

// adjustmentFor maps a forecast condition keyword to a travel-time multiplier
// increase. Unknown conditions leave travel times untouched.
func adjustmentFor(condition string) float64 {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "snow"):
		return 0.30
	case strings.Contains(c, "storm"), strings.Contains(c, "thunder"):
		return 0.50
	case strings.Contains(c, "rain"), strings.Contains(c, "shower"):
		return 0.20
	case strings.Contains(c, "fog"), strings.Contains(c, "mist"):
		return 0.10
	default:
		return 0
	}
}

// weatherAdjustments fans out one forecast lookup per location and collects
// the per-location multipliers. A failed lookup yields zero adjustment for
// that location only; the batch is never failed on weather errors.
func (b *Builder) weatherAdjustments(ctx context.Context, locations []string) []float64 {
	adj := make([]float64, len(locations))
	if b.weather == nil {
		return adj
	}
	var wg sync.WaitGroup
	for i, loc := range locations {
		wg.Add(1)
		go func(i int, loc string) {
			defer wg.Done()
			fc, err := b.weather.Forecast(ctx, loc, b.cfg.ForecastDays)
			if err != nil {
				b.log.Debugf("weather lookup for %s failed: %v", loc, err)
				return
			}
			adj[i] = adjustmentFor(fc.Condition)
		}(i, loc)
	}
	wg.Wait()
	return adj
}
