package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/output"
	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/browser/lane"
)

var _ output.BrowserPort = (*SessionDriver)(nil)

var ErrDisposed = errors.New("browser session disposed")

const (
	defaultElementTimeout  = 5 * time.Second
	defaultNavigateTimeout = 30 * time.Second

	screenshotMaxWidth = 1280
	screenshotQuality  = 80
	scrollStep         = 500
	enterDelay         = 300 * time.Millisecond
	laneBuffer         = 4
)

// disposeTimeout bounds how long Dispose waits for in-flight lane work
// before closing the browser directly.
var disposeTimeout = 10 * time.Second

type Config struct {
	Headless        bool
	NoSandbox       bool
	ElementTimeout  time.Duration
	NavigateTimeout time.Duration
	SettleClick     time.Duration
	SettleChallenge time.Duration
	SettleType      time.Duration
	SettleNavigate  time.Duration
	Fingerprint     Fingerprint
	Detector        ChallengeDetector
}

func DefaultConfig() Config {
	return Config{
		Headless:        true,
		NoSandbox:       true,
		ElementTimeout:  defaultElementTimeout,
		NavigateTimeout: defaultNavigateTimeout,
		SettleClick:     500 * time.Millisecond,
		SettleChallenge: 2 * time.Second,
		SettleType:      800 * time.Millisecond,
		SettleNavigate:  time.Second,
		Fingerprint:     DefaultFingerprint(),
		Detector:        DefaultDetector(),
	}
}

func withDefaults(cfg Config) Config {
	if cfg.ElementTimeout <= 0 {
		cfg.ElementTimeout = defaultElementTimeout
	}
	if cfg.NavigateTimeout <= 0 {
		cfg.NavigateTimeout = defaultNavigateTimeout
	}
	if cfg.Detector == nil {
		cfg.Detector = DefaultDetector()
	}
	return cfg
}

// SessionDriver owns one isolated browser instance for one agent session.
// Every operation is queued onto the session's lane, so calls never run
// concurrently against the underlying automation library.
type SessionDriver struct {
	cfg      Config
	detector ChallengeDetector
	log      output.LoggerPort

	lane     *lane.Lane
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	disposeOnce  sync.Once
	teardownOnce sync.Once
}

// NewSessionDriver launches a headless browser with automation traces
// suppressed, opens a stealth page, and applies the fingerprint profile.
// The page starts on about:blank so the first real navigation is the
// session's own choice. The context bounds the launch.
func NewSessionDriver(ctx context.Context, cfg Config, log output.LoggerPort) (*SessionDriver, error) {
	cfg = withDefaults(cfg)

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-infobars").
		Set("no-first-run").
		Set("no-default-browser-check")

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("open stealth page: %w", err)
	}

	if err := cfg.Fingerprint.apply(browser, page); err != nil {
		_ = page.Close()
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("apply fingerprint: %w", err)
	}

	d := &SessionDriver{
		cfg:      cfg,
		detector: cfg.Detector,
		log:      log,
		lane:     lane.New(laneBuffer),
		launcher: l,
		browser:  browser,
		page:     page,
	}

	d.log.Debug("browser session ready",
		"headless", cfg.Headless,
		"viewport", fmt.Sprintf("%dx%d", cfg.Fingerprint.ViewportWidth, cfg.Fingerprint.ViewportHeight))
	return d, nil
}

func (d *SessionDriver) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	v, err := d.lane.Submit(ctx, func() (any, error) {
		return d.capture()
	})
	if err != nil {
		return nil, laneErr(err)
	}
	return v.(*entity.Screenshot), nil
}

func (d *SessionDriver) CurrentURL(ctx context.Context) (string, error) {
	v, err := d.lane.Submit(ctx, func() (any, error) {
		info, err := d.page.Info()
		if err != nil {
			return "", fmt.Errorf("page info: %w", err)
		}
		return info.URL, nil
	})
	if err != nil {
		return "", laneErr(err)
	}
	return v.(string), nil
}

func (d *SessionDriver) ExecuteAction(ctx context.Context, action entity.Action) error {
	err := d.lane.Run(ctx, func() error {
		switch action.Kind {
		case entity.ActionNavigate:
			return d.navigate(action.URL)
		case entity.ActionClick:
			return d.click(action.Selector)
		case entity.ActionType:
			return d.typeText(action.Selector, action.Text)
		case entity.ActionScroll:
			return d.scroll(action.Direction)
		case entity.ActionFinish, entity.ActionError:
			return nil
		default:
			return fmt.Errorf("unsupported action kind %q", action.Kind)
		}
	})
	return laneErr(err)
}

func (d *SessionDriver) ExtractContent(ctx context.Context) (string, error) {
	v, err := d.lane.Submit(ctx, func() (any, error) {
		return d.extract(), nil
	})
	if err != nil {
		return "", laneErr(err)
	}
	return v.(string), nil
}

// Dispose tears down page, browser, and launcher, in that order. It is
// idempotent and waits for in-flight lane work before closing.
func (d *SessionDriver) Dispose() error {
	d.disposeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), disposeTimeout)
		defer cancel()

		if err := d.lane.Run(ctx, d.teardown); err != nil {
			d.log.Warn("teardown could not run on the lane, closing directly", "error", err)
			d.lane.Close()
			_ = d.teardown()
			return
		}
		d.lane.Close()
	})
	return nil
}

// teardown closes page, browser, and launcher. When Dispose times out and
// closes directly, the lane drain may still hold a queued copy of this call;
// the body must run at most once.
func (d *SessionDriver) teardown() error {
	d.teardownOnce.Do(func() {
		if d.page != nil {
			if err := d.page.Close(); err != nil {
				d.log.Debug("page close", "error", err)
			}
		}
		if d.browser != nil {
			if err := d.browser.Close(); err != nil {
				d.log.Debug("browser close", "error", err)
			}
		}
		if d.launcher != nil {
			d.launcher.Kill()
			d.launcher.Cleanup()
		}
		d.log.Debug("browser session closed")
	})
	return nil
}

func (d *SessionDriver) capture() (*entity.Screenshot, error) {
	raw, err := d.page.Timeout(d.cfg.ElementTimeout).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(screenshotQuality),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	if img.Bounds().Dx() > screenshotMaxWidth {
		img = imaging.Resize(img, screenshotMaxWidth, 0, imaging.Lanczos)
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: screenshotQuality}); err != nil {
			return nil, fmt.Errorf("encode screenshot: %w", err)
		}
		raw = buf.Bytes()
	}

	return &entity.Screenshot{
		Data:   raw,
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (d *SessionDriver) navigate(rawURL string) error {
	u := normalizeURL(rawURL)
	page := d.page.Timeout(d.cfg.NavigateTimeout)
	wait := page.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := page.Navigate(u); err != nil {
		return fmt.Errorf("navigate to %s: %w", u, err)
	}
	wait()
	time.Sleep(d.cfg.SettleNavigate)
	return nil
}

func (d *SessionDriver) click(selector string) error {
	challenge := d.detector.Matches(selector)
	el, err := resolveElement(d.page, d.cfg.ElementTimeout, selector, clickStrategies(challenge), d.log)
	if err != nil {
		return err
	}

	_ = el.ScrollIntoView()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}

	time.Sleep(d.clickSettle(selector))
	return nil
}

func (d *SessionDriver) typeText(selector, text string) error {
	el, err := resolveElement(d.page, d.cfg.ElementTimeout, selector, typeStrategies(), d.log)
	if err != nil {
		return err
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("type into %q: %w", selector, err)
	}

	time.Sleep(enterDelay)
	if err := d.page.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	time.Sleep(d.cfg.SettleType)
	return nil
}

func (d *SessionDriver) scroll(direction entity.ScrollDirection) error {
	var dx, dy int
	switch direction {
	case entity.ScrollUp:
		dy = -scrollStep
	case entity.ScrollDown:
		dy = scrollStep
	case entity.ScrollLeft:
		dx = -scrollStep
	case entity.ScrollRight:
		dx = scrollStep
	default:
		return fmt.Errorf("unknown scroll direction %q", direction)
	}

	if _, err := d.page.Eval(`(x, y) => window.scrollBy(x, y)`, dx, dy); err != nil {
		return fmt.Errorf("scroll %s: %w", direction, err)
	}

	time.Sleep(d.cfg.SettleClick)
	return nil
}

// clickSettle picks the post-click wait: challenge controls get the long
// one because interstitial checks load slowly.
func (d *SessionDriver) clickSettle(selector string) time.Duration {
	if d.detector.Matches(selector) {
		return d.cfg.SettleChallenge
	}
	return d.cfg.SettleClick
}

func normalizeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

func laneErr(err error) error {
	if errors.Is(err, lane.ErrClosed) {
		return ErrDisposed
	}
	return err
}
