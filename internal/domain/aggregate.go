package domain

// AggregateView represents aggregated visitor analytics data. It is a pure
// projection over the visit log, recomputed on demand and never persisted.
type AggregateView struct {
	GeoDistribution []CountryStat     `json:"geoDistribution"` // Visits by country, top 8
	TopCities       []CityStat        `json:"topCities"`       // Visits by city, top 10
	VisitorTrends   []TimeSeriesPoint `json:"visitorTrends"`   // Dense daily series over the requested window
	DeviceStats     []CategoryStat    `json:"deviceStats"`     // Visits by device type
	BrowserStats    []CategoryStat    `json:"browserStats"`    // Visits by browser, top 5
	PeakHours       []HourBucket      `json:"peakHours"`       // 24 hour-of-day buckets
	RecentActivity  []*Visit          `json:"recentActivity"`  // Latest visits, newest first, top 5
}

// CountryStat represents visit counts for a single country
type CountryStat struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
	Color   string `json:"color"` // Stable chart color assigned by rank
}

// CityStat represents visit counts for a "{city}, {countryCode}" pair
type CityStat struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// TimeSeriesPoint represents a point in time-series data
type TimeSeriesPoint struct {
	Date  string `json:"date"`  // Date in "YYYY-MM-DD" format
	Count int64  `json:"count"` // Number of visits on this date
}

// CategoryStat represents visit counts for a device or browser category
type CategoryStat struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// HourBucket represents visit counts for one hour of the day (0-23)
type HourBucket struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}
