package rod

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Fingerprint is the browser identity presented to visited sites. The
// defaults mimic a desktop Chrome on Windows located in New York, which
// keeps consent walls and geo redirects deterministic across sessions.
type Fingerprint struct {
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string
	AcceptLanguage string
	Platform       string
	TimezoneID     string
	Latitude       float64
	Longitude      float64
	ExtraHeaders   map[string]string
}

func DefaultFingerprint() Fingerprint {
	return Fingerprint{
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		AcceptLanguage: "en-US,en;q=0.9",
		Platform:       "Win32",
		TimezoneID:     "America/New_York",
		Latitude:       40.7128,
		Longitude:      -74.0060,
		ExtraHeaders: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"DNT":                       "1",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		},
	}
}

func (f Fingerprint) apply(browser *rod.Browser, page *rod.Page) error {
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             f.ViewportWidth,
		Height:            f.ViewportHeight,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}).Call(page); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent:      f.UserAgent,
		AcceptLanguage: f.AcceptLanguage,
		Platform:       f.Platform,
	}).Call(page); err != nil {
		return fmt.Errorf("set user agent: %w", err)
	}

	if err := (proto.EmulationSetTimezoneOverride{
		TimezoneID: f.TimezoneID,
	}).Call(page); err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}

	if err := (proto.BrowserGrantPermissions{
		Permissions: []proto.BrowserPermissionType{proto.BrowserPermissionTypeGeolocation},
	}).Call(browser); err != nil {
		return fmt.Errorf("grant geolocation: %w", err)
	}

	if err := (proto.EmulationSetGeolocationOverride{
		Latitude:  gson.Num(f.Latitude),
		Longitude: gson.Num(f.Longitude),
		Accuracy:  gson.Num(100),
	}).Call(page); err != nil {
		return fmt.Errorf("set geolocation: %w", err)
	}

	if len(f.ExtraHeaders) > 0 {
		headers := proto.NetworkHeaders{}
		for k, v := range f.ExtraHeaders {
			headers[k] = gson.New(v)
		}
		if err := (proto.NetworkSetExtraHTTPHeaders{Headers: headers}).Call(page); err != nil {
			return fmt.Errorf("set extra headers: %w", err)
		}
	}

	return nil
}
