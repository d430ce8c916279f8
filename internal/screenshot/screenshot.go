// Package screenshot captures hosted payment pages with headless Chrome for
// the theme catalog thumbnails.
package screenshot

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type viewport struct {
	width  int
	height int
}

var (
	desktopViewport = viewport{width: 1600, height: 1000}
	// small phone, iPhone SE class
	mobileViewport = viewport{width: 375, height: 667}
)

// Result is a captured page image. Base64 is always set on success; Path and
// PublicPath are set only when the data directory was writable, so hosts with
// an ephemeral or read-only filesystem still get a usable thumbnail.
type Result struct {
	Base64     string
	Path       string
	PublicPath string
}

// Capturer drives headless Chrome. The zero value is not usable; construct
// with NewCapturer.
type Capturer struct {
	themesDir string
	execPath  string
	navWait   time.Duration
	log       *zap.Logger
}

// NewCapturer stores screenshots under dataDir/themes. execPath overrides
// Chrome discovery when non-empty.
func NewCapturer(dataDir, execPath string, log *zap.Logger) *Capturer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Capturer{
		themesDir: filepath.Join(dataDir, "themes"),
		execPath:  execPath,
		navWait:   2 * time.Second,
		log:       log,
	}
}

// Capture renders url at the viewport for deviceType ("mobile" selects the
// phone viewport, anything else desktop) and returns the PNG base64-encoded.
func (c *Capturer) Capture(ctx context.Context, url, deviceType string) (*Result, error) {
	vp := desktopViewport
	if deviceType == "mobile" {
		vp = mobileViewport
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(vp.width, vp.height),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(vp.width), int64(vp.height)),
		chromedp.Navigate(url),
		// hosted pages keep loading assets after DOMContentLoaded
		chromedp.Sleep(c.navWait),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", url, err)
	}

	res := &Result{Base64: base64.StdEncoding.EncodeToString(buf)}

	filename := fmt.Sprintf("screenshot-%d-%s.png", time.Now().UnixMilli(), uuid.NewString()[:8])
	if err := os.MkdirAll(c.themesDir, 0o755); err == nil {
		full := filepath.Join(c.themesDir, filename)
		if err := os.WriteFile(full, buf, 0o644); err == nil {
			res.Path = full
			res.PublicPath = "/themes/" + filename
		} else {
			c.log.Warn("screenshot not persisted, serving base64 only", zap.Error(err))
		}
	} else {
		c.log.Warn("screenshot dir not writable, serving base64 only", zap.Error(err))
	}
	return res, nil
}

// ThemesDir is where persisted screenshots live, for static serving.
func (c *Capturer) ThemesDir() string { return c.themesDir }
