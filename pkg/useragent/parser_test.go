package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariIPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	safariIPadUA    = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	chromeAndroidUA = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	googlebotUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestParseUserAgent_Desktop(t *testing.T) {
	parser := NewParser(zap.NewNop())

	info := parser.ParseUserAgent(chromeWindowsUA)

	assert.Equal(t, DeviceDesktop, info.DeviceType)
	assert.Equal(t, "Chrome", info.Browser)
	assert.Contains(t, info.OS, "Windows")
}

func TestParseUserAgent_Mobile(t *testing.T) {
	parser := NewParser(zap.NewNop())

	iphone := parser.ParseUserAgent(safariIPhoneUA)
	assert.Equal(t, DeviceMobile, iphone.DeviceType)

	android := parser.ParseUserAgent(chromeAndroidUA)
	assert.Equal(t, DeviceMobile, android.DeviceType)
}

func TestParseUserAgent_Tablet(t *testing.T) {
	parser := NewParser(zap.NewNop())

	info := parser.ParseUserAgent(safariIPadUA)

	assert.Equal(t, DeviceTablet, info.DeviceType)
}

func TestParseUserAgent_Bot(t *testing.T) {
	parser := NewParser(zap.NewNop())

	info := parser.ParseUserAgent(googlebotUA)

	assert.Equal(t, DeviceBot, info.DeviceType)
}

func TestParseUserAgent_Empty(t *testing.T) {
	parser := NewParser(zap.NewNop())

	info := parser.ParseUserAgent("")

	assert.Equal(t, Unknown, info.DeviceType)
	assert.Equal(t, Unknown, info.Browser)
	assert.Equal(t, Unknown, info.OS)
}
