package analytics

import (
	"Pulse-Backend/internal/domain"
	"fmt"
	"sort"
	"time"
)

// chartPalette holds the fixed colors assigned to geo distribution ranks.
// The color depends on the rank, not the country, so charts stay stable
// across refreshes.
var chartPalette = [...]string{
	"#6366F1", "#8B5CF6", "#EC4899", "#F59E0B",
	"#10B981", "#3B82F6", "#EF4444", "#14B8A6",
}

const (
	maxCountries = 8
	maxCities    = 10
	maxBrowsers  = 5
	maxRecent    = 5
	hoursPerDay  = 24
)

// Aggregate computes the full analytics view from the raw visit log.
// It is a pure function: no side effects, safe to call concurrently, and
// deterministic for identical input ordering (ties keep first-encountered
// order in every ranking). Entries without a usable timestamp are excluded
// from time-based views but still counted in categorical ones.
func Aggregate(entries []*domain.Visit, windowDays int, now time.Time) *domain.AggregateView {
	return &domain.AggregateView{
		GeoDistribution: geoDistribution(entries),
		TopCities:       topCities(entries),
		VisitorTrends:   visitorTrends(entries, windowDays, now),
		DeviceStats:     deviceStats(entries),
		BrowserStats:    browserStats(entries),
		PeakHours:       peakHours(entries, now),
		RecentActivity:  recentActivity(entries),
	}
}

// group counts entries per key while remembering the order in which keys
// were first seen, so descending-count sorts break ties deterministically.
type group struct {
	keys   []string
	counts map[string]int64
}

func newGroup() *group {
	return &group{counts: make(map[string]int64)}
}

func (g *group) add(key string) {
	if _, seen := g.counts[key]; !seen {
		g.keys = append(g.keys, key)
	}
	g.counts[key]++
}

// ranked returns the keys sorted by descending count, first-encountered
// order preserved between equal counts, truncated to limit (0 = no limit).
func (g *group) ranked(limit int) []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)

	sort.SliceStable(keys, func(i, j int) bool {
		return g.counts[keys[i]] > g.counts[keys[j]]
	})

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

func geoDistribution(entries []*domain.Visit) []domain.CountryStat {
	byCountry := newGroup()
	for _, v := range entries {
		byCountry.add(v.CountryOrDefault())
	}

	ranked := byCountry.ranked(maxCountries)
	stats := make([]domain.CountryStat, 0, len(ranked))
	for rank, country := range ranked {
		stats = append(stats, domain.CountryStat{
			Country: country,
			Count:   byCountry.counts[country],
			Color:   chartPalette[rank%len(chartPalette)],
		})
	}
	return stats
}

func topCities(entries []*domain.Visit) []domain.CityStat {
	byCity := newGroup()
	for _, v := range entries {
		byCity.add(fmt.Sprintf("%s, %s", v.CityOrDefault(), v.CountryCodeOrDefault()))
	}

	ranked := byCity.ranked(maxCities)
	stats := make([]domain.CityStat, 0, len(ranked))
	for _, city := range ranked {
		stats = append(stats, domain.CityStat{
			City:  city,
			Count: byCity.counts[city],
		})
	}
	return stats
}

// visitorTrends produces a dense daily series of exactly windowDays points
// ending on now's calendar day, zero-defaulted. Day bucketing happens in
// now's time zone; entries with a zero timestamp are excluded.
func visitorTrends(entries []*domain.Visit, windowDays int, now time.Time) []domain.TimeSeriesPoint {
	if windowDays <= 0 {
		return []domain.TimeSeriesPoint{}
	}

	byDay := make(map[string]int64)
	for _, v := range entries {
		if v.VisitedAt.IsZero() {
			continue
		}
		byDay[v.VisitedAt.In(now.Location()).Format("2006-01-02")]++
	}

	trends := make([]domain.TimeSeriesPoint, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		trends = append(trends, domain.TimeSeriesPoint{
			Date:  date,
			Count: byDay[date],
		})
	}
	return trends
}

func deviceStats(entries []*domain.Visit) []domain.CategoryStat {
	byDevice := newGroup()
	for _, v := range entries {
		byDevice.add(v.DeviceTypeOrDefault())
	}

	ranked := byDevice.ranked(0)
	stats := make([]domain.CategoryStat, 0, len(ranked))
	for _, device := range ranked {
		stats = append(stats, domain.CategoryStat{
			Name:  device,
			Count: byDevice.counts[device],
		})
	}
	return stats
}

func browserStats(entries []*domain.Visit) []domain.CategoryStat {
	byBrowser := newGroup()
	for _, v := range entries {
		byBrowser.add(v.BrowserOrDefault())
	}

	ranked := byBrowser.ranked(maxBrowsers)
	stats := make([]domain.CategoryStat, 0, len(ranked))
	for _, browser := range ranked {
		stats = append(stats, domain.CategoryStat{
			Name:  browser,
			Count: byBrowser.counts[browser],
		})
	}
	return stats
}

// peakHours always returns exactly 24 buckets; the counts sum to the number
// of entries carrying a usable timestamp.
func peakHours(entries []*domain.Visit, now time.Time) []domain.HourBucket {
	buckets := make([]domain.HourBucket, hoursPerDay)
	for hour := range buckets {
		buckets[hour].Hour = hour
	}

	for _, v := range entries {
		if v.VisitedAt.IsZero() {
			continue
		}
		buckets[v.VisitedAt.In(now.Location()).Hour()].Count++
	}
	return buckets
}

func recentActivity(entries []*domain.Visit) []*domain.Visit {
	recent := make([]*domain.Visit, 0, len(entries))
	for _, v := range entries {
		if !v.VisitedAt.IsZero() {
			recent = append(recent, v)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].VisitedAt.After(recent[j].VisitedAt)
	})

	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	return recent
}
