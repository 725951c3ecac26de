package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// Config controls how the browser is launched and watched.
type Config struct {
	// URL to open after launch. Empty leaves the tab on about:blank.
	URL      string
	Headless bool
	// ExecPath overrides browser binary discovery.
	ExecPath string
	// UserDataDir persists the profile across runs (logins survive).
	UserDataDir string
	// PollInterval paces the mutation counter polls. Defaults to 750ms.
	PollInterval time.Duration
}

// Chrome drives a tab through the DevTools protocol.
type Chrome struct {
	ctx    context.Context
	cancel context.CancelFunc
	poll   time.Duration
	log    zerolog.Logger
}

// NewChrome launches a browser, opens a tab and navigates it.
func NewChrome(parent context.Context, cfg Config, log zerolog.Logger) (*Chrome, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		log.Debug().Msgf(format, args...)
	}))

	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 750 * time.Millisecond
	}
	c := &Chrome{
		ctx:  tabCtx,
		poll: poll,
		log:  log,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}
	if cfg.URL != "" {
		if err := c.run(parent, chromedp.Navigate(cfg.URL), chromedp.WaitReady("body")); err != nil {
			c.Close()
			return nil, fmt.Errorf("opening %s: %w", cfg.URL, err)
		}
	}
	return c, nil
}

func (c *Chrome) Close() {
	c.cancel()
}

// run executes actions on the tab, honoring cancellation of the caller's
// context.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (c *Chrome) Snapshot(ctx context.Context) (*dom.Snapshot, error) {
	var (
		serialized string
		url        string
	)
	err := c.run(ctx,
		chromedp.Location(&url),
		chromedp.Evaluate(jsSnapshot, &serialized),
	)
	if err != nil {
		return nil, fmt.Errorf("serializing page: %w", err)
	}
	snap, err := dom.Parse(serialized, url)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return snap, nil
}

func (c *Chrome) Click(ctx context.Context, path mcq.Handle) error {
	return c.act(ctx, path, "el.click();")
}

func (c *Chrome) SelectIndex(ctx context.Context, path mcq.Handle, idx int) error {
	action := fmt.Sprintf(`el.selectedIndex = %d; el.dispatchEvent(new Event("change", { bubbles: true }));`, idx)
	return c.act(ctx, path, action)
}

func (c *Chrome) act(ctx context.Context, path mcq.Handle, action string) error {
	var ok bool
	if err := c.run(ctx, chromedp.Evaluate(resolveExpr(path, action), &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("element not found: %s", path)
	}
	return nil
}

func (c *Chrome) ClickPoint(ctx context.Context, x, y int) error {
	return c.run(ctx, chromedp.MouseClickXY(float64(x), float64(y)))
}

func (c *Chrome) CaptureViewport(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := c.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (c *Chrome) FetchImageData(ctx context.Context, src string) (string, error) {
	var dataURI string
	err := c.run(ctx, chromedp.Evaluate(fetchImageExpr(src), &dataURI,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
	if err != nil {
		return "", fmt.Errorf("fetching image %s: %w", src, err)
	}
	return dataURI, nil
}

func (c *Chrome) WatchMutations(ctx context.Context) (<-chan struct{}, error) {
	var count int
	if err := c.run(ctx, chromedp.Evaluate(jsMutationCount, &count)); err != nil {
		return nil, fmt.Errorf("installing mutation observer: %w", err)
	}
	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		last := count
		ticker := time.NewTicker(c.poll)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			var n int
			if err := c.run(ctx, chromedp.Evaluate(jsMutationCount, &n)); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Debug().Err(err).Msg("mutation poll failed")
				continue
			}
			if n != last {
				last = n
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}
