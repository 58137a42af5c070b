package geo

import (
	"Pulse-Backend/internal/config"
	"Pulse-Backend/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxResponseSize caps how much of the upstream body is read. The
// geolocation payload is a few hundred bytes; anything bigger is garbage.
const maxResponseSize = 64 * 1024

// response mirrors the JSON shape of the ipapi.co-style lookup endpoint.
// The upstream is untrusted: any field may be missing or empty.
type response struct {
	IP          string `json:"ip"`
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Client performs best-effort IP geolocation lookups against an external
// HTTP service. Lookups are time-bounded and never fail the caller: any
// network, decode or upstream error is logged and yields nil.
type Client struct {
	httpClient *http.Client
	endpoint   string
	log        *zap.Logger
}

// NewClient creates a geolocation client. The timeout from config is a hard
// bound on the whole request so a hung upstream cannot stall visit counting.
func NewClient(cfg *config.Geo, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		log:        log,
	}
}

// Lookup resolves coarse location data for the given IP address.
// Returns nil on any failure; on success every field of the returned
// Location is non-empty ("Unknown"/"XX" substituted for missing data).
func (c *Client) Lookup(ctx context.Context, ip string) *domain.Location {
	if !lookupable(ip) {
		c.log.Debug("skipping geolocation for non-public address", zap.String("ip", ip))
		return nil
	}

	url := fmt.Sprintf("%s/%s/json/", c.endpoint, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Warn("failed to build geolocation request", zap.String("ip", ip), zap.Error(err))
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("geolocation lookup failed", zap.String("ip", ip), zap.Error(err))
		return nil
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug("failed to close geolocation response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("geolocation service returned non-OK status",
			zap.String("ip", ip),
			zap.Int("status", resp.StatusCode))
		return nil
	}

	var payload response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		c.log.Warn("failed to decode geolocation response", zap.String("ip", ip), zap.Error(err))
		return nil
	}

	if payload.Error {
		c.log.Warn("geolocation service rejected lookup",
			zap.String("ip", ip),
			zap.String("reason", payload.Reason))
		return nil
	}

	location := &domain.Location{
		Country:     payload.CountryName,
		CountryCode: payload.CountryCode,
		City:        payload.City,
		Region:      payload.Region,
		IP:          payload.IP,
	}
	location.Normalize()

	c.log.Debug("resolved visitor location",
		zap.String("ip", ip),
		zap.String("country", location.Country),
		zap.String("city", location.City))

	return location
}

// lookupable reports whether an IP is worth sending to the upstream.
// Private, loopback and unparseable addresses always resolve to nothing.
func lookupable(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !parsed.IsLoopback() && !parsed.IsPrivate() && !parsed.IsUnspecified()
}
