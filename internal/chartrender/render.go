// Package chartrender rasterizes a go-echarts HTML chart definition to a PNG
// file via a headless Chrome page load + screenshot. It reuses the same
// launch-or-connect pattern as internal/browser.SessionManager
// (launcher.New()...Launch(), rod.New().ControlURL(...).Connect()), but
// drives one short-lived headless page per render instead of a long-lived
// pool of interactive sessions, since trend rendering only ever needs "load this HTML,
// screenshot it, close it."
package chartrender

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"issuelens/internal/errs"
	"issuelens/internal/logging"
)

// DefaultTimeout bounds how long a single chart render may take end to end
// (launch + load + screenshot), matching the navigation-timeout
// convention of a generous but finite wall-clock budget.
const DefaultTimeout = 30 * time.Second

// Options controls the rendered viewport. Width/Height default to a size
// generous enough for go-echarts' default canvas.
type Options struct {
	Width  int
	Height int
}

func (o Options) width() int {
	if o.Width <= 0 {
		return 1200
	}
	return o.Width
}

func (o Options) height() int {
	if o.Height <= 0 {
		return 700
	}
	return o.Height
}

// RenderHTMLToPNG writes html to a temp file, loads it in a headless Chrome
// tab, waits for page load plus a fixed 400ms settle delay (it does not
// listen for a chart render event), screenshots the page, and writes
// the PNG bytes to outPath. The browser instance is launched fresh and shut
// down at the end of the call — trend renders are infrequent, one-shot
// operations, not a pool of long-lived interactive sessions.
func RenderHTMLToPNG(ctx context.Context, html string, outPath string, opts Options) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	htmlPath, err := writeTempHTML(html)
	if err != nil {
		return fmt.Errorf("chartrender: write temp html: %w", err)
	}
	defer os.Remove(htmlPath)

	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return fmt.Errorf("chartrender: launch headless chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("chartrender: connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + htmlPath})
	if err != nil {
		if ctx.Err() != nil {
			return errs.Cancelled("chart render")
		}
		return fmt.Errorf("chartrender: open page: %w", err)
	}
	defer page.Close()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.width(),
		Height:            opts.height(),
		DeviceScaleFactor: 1,
		Mobile:            false,
	}).Call(page); err != nil {
		logging.TrendDebug("chartrender: set viewport failed: %v", err)
	}

	if err := page.Context(ctx).WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return errs.Cancelled("chart render")
		}
		return fmt.Errorf("chartrender: wait load: %w", err)
	}
	// go-echarts draws asynchronously on window load; a short settle delay
	// lets the canvas finish painting before the screenshot is taken.
	time.Sleep(400 * time.Millisecond)

	img, err := page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		if ctx.Err() != nil {
			return errs.Cancelled("chart render")
		}
		return fmt.Errorf("chartrender: screenshot: %w", err)
	}

	if err := os.WriteFile(outPath, img, 0o644); err != nil {
		return fmt.Errorf("chartrender: write %s: %w", outPath, err)
	}
	logging.Trend("chartrender: wrote %s (%d bytes)", outPath, len(img))
	return nil
}

func writeTempHTML(html string) (string, error) {
	f, err := os.CreateTemp("", "issuelens-chart-*.html")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(html); err != nil {
		return "", err
	}
	return f.Name(), nil
}
