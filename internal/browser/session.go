// internal/browser/session.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davenull7x/listforge/internal/config"
	"github.com/davenull7x/listforge/internal/schema"
)

// Session is one isolated browser tab. One logical run (profiling pass or
// submission pass) acquires a session once and reuses it sequentially across
// all directories.
type Session struct {
	id     string
	cfg    *config.Config
	logger *zap.Logger

	allocatorCtx   context.Context
	sessionContext context.Context
	sessionCancel  context.CancelFunc

	onClose  func()
	isClosed bool
	mu       sync.Mutex
}

func newSession(allocCtx context.Context, cfg *config.Config, logger *zap.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:           id,
		cfg:          cfg,
		logger:       logger.With(zap.String("session_id", id[:8])),
		allocatorCtx: allocCtx,
	}
}

func (s *Session) initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionContext != nil {
		return fmt.Errorf("session already initialized")
	}
	s.sessionContext, s.sessionCancel = chromedp.NewContext(s.allocatorCtx)
	return nil
}

// ID returns the unique identifier for this session.
func (s *Session) ID() string { return s.id }

// Navigate loads a URL, waits for the document body, then lets the page
// settle. The navigation timeout is the single per-navigation bound.
func (s *Session) Navigate(url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))

	navCtx, cancel := context.WithTimeout(s.sessionContext, s.cfg.Network.NavigationTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.Network.PostLoadWait),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", schema.ErrNavigationFailed, url, err)
	}
	return nil
}

// Evaluate runs a JavaScript expression in the page and unmarshals its
// result into out.
func (s *Session) Evaluate(expr string, out any) error {
	return chromedp.Run(s.sessionContext, chromedp.Evaluate(expr, out))
}

// jsString renders a Go string as a JavaScript string literal.
func jsString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// ClickSelector clicks the first element matching the selector. The bool
// reports whether any element matched; a miss is not an error.
func (s *Session) ClickSelector(selector string) (bool, error) {
	expr := fmt.Sprintf(`(() => {
        const el = document.querySelector(%s);
        if (!el) return false;
        el.click();
        return true;
    })()`, jsString(selector))

	var clicked bool
	if err := s.Evaluate(expr, &clicked); err != nil {
		return false, fmt.Errorf("click %q: %w", selector, err)
	}
	return clicked, nil
}

// ClickByText clicks the first button or link whose visible text (or value)
// contains the given string, case-insensitively.
func (s *Session) ClickByText(text string) (bool, error) {
	expr := fmt.Sprintf(`(() => {
        const needle = %s.toLowerCase();
        const els = document.querySelectorAll('button, a, input[type="submit"], input[type="button"]');
        for (const el of els) {
            const label = (el.innerText || el.value || '').toLowerCase();
            if (label.includes(needle)) { el.click(); return true; }
        }
        return false;
    })()`, jsString(text))

	var clicked bool
	if err := s.Evaluate(expr, &clicked); err != nil {
		return false, fmt.Errorf("click by text %q: %w", text, err)
	}
	return clicked, nil
}

// ElementExists reports whether any element matches the selector.
func (s *Session) ElementExists(selector string) (bool, error) {
	var exists bool
	expr := fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(selector))
	if err := s.Evaluate(expr, &exists); err != nil {
		return false, fmt.Errorf("query %q: %w", selector, err)
	}
	return exists, nil
}

// ClearAndType selects any existing content of a text control and overwrites
// it by typing.
func (s *Session) ClearAndType(selector, text string) error {
	selectAll := fmt.Sprintf(`(() => {
        const el = document.querySelector(%s);
        if (el && typeof el.select === 'function') el.select();
    })()`, jsString(selector))

	err := chromedp.Run(s.sessionContext,
		chromedp.Focus(selector, chromedp.ByQuery),
		chromedp.Evaluate(selectAll, nil),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("type into %q: %w", selector, err)
	}
	return nil
}

// SetSelectValue picks an option of a select control by value, falling back
// to a case-insensitive label match, and fires the change events client
// frameworks listen for. The bool reports whether an option matched.
func (s *Session) SetSelectValue(selector, value string) (bool, error) {
	expr := fmt.Sprintf(`(() => {
        const el = document.querySelector(%s);
        if (!el || !el.options) return false;
        const wanted = %s.toLowerCase();
        for (const opt of el.options) {
            if (opt.value === %s || opt.text.toLowerCase() === wanted) {
                el.value = opt.value;
                el.dispatchEvent(new Event('input', { bubbles: true }));
                el.dispatchEvent(new Event('change', { bubbles: true }));
                return true;
            }
        }
        return false;
    })()`, jsString(selector), jsString(value), jsString(value))

	var matched bool
	if err := s.Evaluate(expr, &matched); err != nil {
		return false, fmt.Errorf("select %q on %q: %w", value, selector, err)
	}
	return matched, nil
}

// WaitForAsync pauses for a fixed duration. The wait is not cancellable
// except by the session itself closing.
func (s *Session) WaitForAsync(d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-s.sessionContext.Done():
		return s.sessionContext.Err()
	}
}

// WaitNavigationOrGrace waits for a load event or, failing that, a fixed
// grace period. Submissions may be asynchronous and fire no navigation;
// that is not an error. The bool reports whether navigation was observed.
func (s *Session) WaitNavigationOrGrace(grace time.Duration) (bool, error) {
	loaded := make(chan struct{}, 1)
	listenCtx, cancel := context.WithCancel(s.sessionContext)
	defer cancel()

	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventLoadEventFired); ok {
			select {
			case loaded <- struct{}{}:
			default:
			}
		}
	})

	select {
	case <-loaded:
		return true, nil
	case <-time.After(grace):
		return false, nil
	case <-s.sessionContext.Done():
		return false, s.sessionContext.Err()
	}
}

// Screenshot captures the viewport to the given path.
func (s *Session) Screenshot(path string) error {
	var buf []byte
	if err := chromedp.Run(s.sessionContext, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}

// Close terminates the tab. Safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	sessionCancel := s.sessionCancel
	sessionContext := s.sessionContext
	onClose := s.onClose
	s.mu.Unlock()

	if sessionCancel != nil {
		sessionCancel()
	}
	if onClose != nil {
		defer onClose()
	}
	if sessionContext == nil {
		return nil
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, 10*time.Second)
	defer cancelWait()

	select {
	case <-sessionContext.Done():
		s.logger.Debug("Browser session closed gracefully.")
	case <-waitCtx.Done():
		s.logger.Warn("Deadline exceeded waiting for browser session to close.", zap.Error(waitCtx.Err()))
	}
	return nil
}
