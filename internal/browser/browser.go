package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNoBrowser is returned when every launch backend failed.
var ErrNoBrowser = eris.New("browser: no browser backend could be launched")

// Config controls how the shared browser process is started.
type Config struct {
	Headless      bool
	ProxyURL      string
	BinPath       string        // explicit browser binary, tried first when set
	LaunchTimeout time.Duration // applies to each backend attempt
}

// Browser wraps the rod.Browser shared by a crawl session.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	proxyURL string
	backend  string
}

// backend is one way of obtaining a browser binary.
type backend struct {
	name string
	bin  func() (string, error)
}

func backends(cfg Config) []backend {
	var out []backend
	if cfg.BinPath != "" {
		out = append(out, backend{name: "configured", bin: func() (string, error) { return cfg.BinPath, nil }})
	}
	out = append(out,
		backend{name: "system", bin: func() (string, error) {
			path, ok := launcher.LookPath()
			if !ok {
				return "", eris.New("no chromium-family browser on PATH")
			}
			return path, nil
		}},
		backend{name: "managed", bin: func() (string, error) {
			return launcher.NewBrowser().Get()
		}},
	)
	return out
}

// New launches a browser, trying each backend in order. Only when all of
// them fail is ErrNoBrowser returned.
func New(cfg Config) (*Browser, error) {
	if cfg.LaunchTimeout <= 0 {
		cfg.LaunchTimeout = 60 * time.Second
	}

	var lastErr error
	for _, be := range backends(cfg) {
		b, err := launch(cfg, be)
		if err == nil {
			zap.L().Info("browser launched", zap.String("backend", be.name), zap.Bool("headless", cfg.Headless))
			return b, nil
		}
		zap.L().Warn("browser backend failed", zap.String("backend", be.name), zap.Error(err))
		lastErr = err
	}
	return nil, eris.Wrapf(ErrNoBrowser, "last error: %v", lastErr)
}

func launch(cfg Config, be backend) (*Browser, error) {
	bin, err := be.bin()
	if err != nil {
		return nil, eris.Wrap(err, "browser: locate binary")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LaunchTimeout)
	defer cancel()

	l := launcher.New().Context(ctx).Bin(bin).Headless(cfg.Headless)
	if cfg.Headless {
		l = l.NoSandbox(true).Set("disable-dev-shm-usage").Set("disable-gpu")
	}
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, eris.Wrap(err, "browser: launch")
	}

	rb := rod.New().ControlURL(controlURL)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return nil, eris.Wrap(err, "browser: connect")
	}

	return &Browser{
		browser:  rb,
		launcher: l,
		proxyURL: cfg.ProxyURL,
		backend:  be.name,
	}, nil
}

// Backend names the launch backend that succeeded.
func (b *Browser) Backend() string {
	return b.backend
}

// GetProxyURL returns the proxy the browser was started with.
func (b *Browser) GetProxyURL() string {
	return b.proxyURL
}

// NewPage opens a blank tab. The caller owns it and must close it.
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, eris.Wrap(err, "browser: new page")
	}
	return page, nil
}

// Close shuts the browser down and kills the launched process.
func (b *Browser) Close() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	if err != nil {
		return eris.Wrap(err, "browser: close")
	}
	return nil
}
