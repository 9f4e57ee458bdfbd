package browser

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"sjsage522/newsworker/pkg/errors"
)

// RodSession is a Session driving a headless Chromium through go-rod
type RodSession struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	page      *rod.Page
	closeOnce sync.Once
	closeErr  error
}

// NewRodSession connects to the DevTools endpoint at controlURL, or launches a
// local headless browser when controlURL is empty.
func NewRodSession(controlURL string) (*RodSession, error) {
	var l *launcher.Launcher
	if controlURL == "" {
		l = launcher.New().
			Headless(true).
			NoSandbox(true).
			Set("disable-gpu").
			Set("disable-dev-shm-usage").
			Set("log-level", "3")

		u, err := l.Launch()
		if err != nil {
			return nil, errors.NewNetwork("rod", "failed to launch browser", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, errors.NewNetwork("rod", "failed to connect to browser", err)
	}

	return &RodSession{browser: b, launcher: l}, nil
}

// Navigate opens url in a new tab and waits for the load event
func (s *RodSession) Navigate(ctx context.Context, url string) error {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return errors.NewNetwork("rod", "failed to open page", err)
	}
	s.page = page

	if err := page.WaitLoad(); err != nil {
		return errors.NewNetwork("rod", "page did not finish loading", err)
	}
	return nil
}

// WaitVisible polls for selector until it exists and is visible
func (s *RodSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	if s.page == nil {
		return nil, stderrors.New("no page loaded")
	}

	el, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	if err == nil {
		err = el.WaitVisible()
	}
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewTimeout("rod", timeout, err)
		}
		return nil, errors.NewNetwork("rod", "failed waiting for "+selector, err)
	}

	return &rodElement{el: el.CancelTimeout()}, nil
}

// Close shuts down a locally launched browser. A remote browser is shared
// across runs, so only this session's page is closed there.
func (s *RodSession) Close() error {
	s.closeOnce.Do(func() {
		if s.launcher == nil {
			if s.page != nil {
				s.closeErr = s.page.Close()
			}
			return
		}
		s.closeErr = s.browser.Close()
		s.launcher.Kill()
		s.launcher.Cleanup()
	})
	return s.closeErr
}

// Remote reports whether the session is attached to a browser it did not launch
func (s *RodSession) Remote() bool {
	return s.launcher == nil
}

// rodElement adapts *rod.Element
type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Attribute(name string) (*string, error) {
	// The DOM property carries the resolved URL, like a browser reports it.
	if name == "href" || name == "src" {
		prop, err := e.el.Property(name)
		if err == nil && !prop.Nil() && prop.Str() != "" {
			value := prop.Str()
			return &value, nil
		}
	}
	return e.el.Attribute(name)
}

func (e *rodElement) Find(selector string) (Element, error) {
	has, found, err := e.el.Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, errors.NewNotFound("rod", selector, nil)
	}
	return &rodElement{el: found}, nil
}

func (e *rodElement) FindAll(selector string) ([]Element, error) {
	found, err := e.el.Elements(selector)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &rodElement{el: el})
	}
	return elements, nil
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) OuterHTML() (string, error) {
	return e.el.HTML()
}
