package useragent

import (
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Device type categories as they appear in analytics views.
const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceBot     = "Bot"
	Unknown       = "Unknown"
)

// Parser wraps the User-Agent parser with device type classification
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// DeviceInfo represents parsed device information
type DeviceInfo struct {
	DeviceType string // Desktop, Mobile, Tablet, Bot, Unknown
	Browser    string // Chrome, Firefox, Safari, etc.
	OS         string // Windows, iOS, Android, etc.
}

// NewParser creates a User-Agent parser backed by the uap-core regex
// definitions compiled into the library, so no regexes file is needed.
func NewParser(log *zap.Logger) *Parser {
	return &Parser{
		parser: uaparser.NewFromSaved(),
		log:    log,
	}
}

// ParseUserAgent parses a User-Agent string into device information.
// An empty or unrecognizable User-Agent yields Unknown fields; the
// aggregation layer applies its own read-time defaults.
func (p *Parser) ParseUserAgent(userAgent string) *DeviceInfo {
	if userAgent == "" {
		return &DeviceInfo{
			DeviceType: Unknown,
			Browser:    Unknown,
			OS:         Unknown,
		}
	}

	client := p.parser.Parse(userAgent)

	info := &DeviceInfo{
		Browser:    orUnknown(client.UserAgent.Family),
		OS:         orUnknown(client.Os.Family),
		DeviceType: p.classify(client, userAgent),
	}

	p.log.Debug("parsed User-Agent",
		zap.String("device_type", info.DeviceType),
		zap.String("browser", info.Browser),
		zap.String("os", info.OS),
	)

	return info
}

// classify determines the device category from parsed client info plus raw
// User-Agent heuristics for the cases uap-core leaves ambiguous.
func (p *Parser) classify(client *uaparser.Client, userAgent string) string {
	if isBot(client, userAgent) {
		return DeviceBot
	}

	osFamily := client.Os.Family
	if isMobileOS(osFamily) {
		if isTablet(client.Device.Family, osFamily, userAgent) {
			return DeviceTablet
		}
		return DeviceMobile
	}

	if isTablet(client.Device.Family, osFamily, userAgent) {
		return DeviceTablet
	}

	if isDesktopOS(osFamily) {
		return DeviceDesktop
	}

	return Unknown
}

var botIndicators = []string{
	"Googlebot", "Bingbot", "Slurp", "DuckDuckBot", "Baiduspider",
	"YandexBot", "facebookexternalhit", "Twitterbot", "LinkedInBot",
	"WhatsApp", "Telegram", "bot", "crawler", "spider", "scraper",
}

func isBot(client *uaparser.Client, userAgent string) bool {
	for _, indicator := range botIndicators {
		if containsFold(client.UserAgent.Family, indicator) || containsFold(userAgent, indicator) {
			return true
		}
	}
	return false
}

var mobileOSFamilies = []string{
	"iOS", "Android", "Windows Phone", "BlackBerry OS", "Firefox OS", "KaiOS",
}

func isMobileOS(osFamily string) bool {
	for _, os := range mobileOSFamilies {
		if containsFold(osFamily, os) {
			return true
		}
	}
	return false
}

func isTablet(deviceFamily, osFamily, userAgent string) bool {
	for _, device := range []string{"iPad", "Tablet", "Kindle", "Surface"} {
		if containsFold(deviceFamily, device) || containsFold(userAgent, device) {
			return true
		}
	}

	// Android tablets typically omit "Mobile" from the User-Agent
	if containsFold(osFamily, "Android") && !containsFold(userAgent, "Mobile") {
		return true
	}

	return false
}

var desktopOSFamilies = []string{
	"Windows", "Mac OS X", "macOS", "Linux", "Ubuntu",
	"Chrome OS", "FreeBSD", "OpenBSD", "NetBSD",
}

func isDesktopOS(osFamily string) bool {
	for _, os := range desktopOSFamilies {
		if containsFold(osFamily, os) {
			return true
		}
	}
	return false
}

func containsFold(str, substr string) bool {
	if str == "" || substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
}

func orUnknown(s string) string {
	if s == "" || s == "Other" {
		return Unknown
	}
	return s
}
