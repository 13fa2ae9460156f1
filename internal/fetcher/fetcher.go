package fetcher

import (
	"context"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"hackinsight/internal/browser"
	"hackinsight/internal/dom"
)

// Options controls how pages are opened.
type Options struct {
	Headers           map[string]string
	UserAgent         string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration // extra wait after load for client-side rendering
}

// Fetcher opens live browser pages as dom.Documents.
type Fetcher struct {
	browser *browser.Browser
	opts    Options
}

// New creates a Fetcher bound to a shared browser.
func New(b *browser.Browser, opts Options) *Fetcher {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	return &Fetcher{browser: b, opts: opts}
}

// WithSettle returns a copy of the fetcher using a different settle delay.
func (f *Fetcher) WithSettle(d time.Duration) *Fetcher {
	cp := *f
	cp.opts.SettleDelay = d
	return &cp
}

// Open navigates a fresh page to url. The returned document owns the page;
// on any error the page has already been closed.
func (f *Fetcher) Open(ctx context.Context, url string) (dom.Document, error) {
	startTime := time.Now()

	base, err := f.browser.NewPage()
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create page")
	}
	// base keeps a background context so the page can be closed even after
	// ctx is cancelled.
	page := base.Context(ctx)

	fail := func(err error, msg string) (dom.Document, error) {
		if cerr := base.Close(); cerr != nil {
			zap.L().Warn("close page failed", zap.String("url", url), zap.Error(cerr))
		}
		return nil, eris.Wrap(err, msg)
	}

	if f.opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.opts.UserAgent}); err != nil {
			return fail(err, "fetcher: set user agent")
		}
	}
	maskWebdriver(page, url)

	if len(f.opts.Headers) > 0 {
		headerList := make([]string, 0, len(f.opts.Headers)*2)
		for k, v := range f.opts.Headers {
			headerList = append(headerList, k, v)
		}
		if _, err := page.SetExtraHeaders(headerList); err != nil {
			return fail(err, "fetcher: set headers")
		}
	}

	nav := page.Timeout(f.opts.NavigationTimeout)
	if err := nav.Navigate(url); err != nil {
		nav.CancelTimeout()
		return fail(err, "fetcher: navigate")
	}
	if err := nav.WaitLoad(); err != nil {
		nav.CancelTimeout()
		return fail(err, "fetcher: wait load")
	}
	nav.CancelTimeout()

	if f.opts.SettleDelay > 0 {
		select {
		case <-ctx.Done():
			return fail(ctx.Err(), "fetcher: settle")
		case <-time.After(f.opts.SettleDelay):
		}
	}

	zap.L().Debug("page loaded", zap.String("url", url), zap.Duration("load_time", time.Since(startTime)))
	return &pageDocument{rodNode: rodNode{page: page}, base: base, url: url}, nil
}

const webdriverMask = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

type scriptInjector interface {
	EvalOnNewDocument(js string) (func() error, error)
}

// maskWebdriver hides navigator.webdriver. Pages still load without it.
func maskWebdriver(p scriptInjector, url string) {
	if _, err := p.EvalOnNewDocument(webdriverMask); err != nil {
		zap.L().Debug("mask webdriver failed", zap.String("url", url), zap.Error(err))
	}
}
