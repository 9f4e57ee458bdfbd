package browser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/newsworker/helpers"
	"sjsage522/newsworker/pkg/errors"
)

// FetchFunc fetches a page body
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// StaticSession is a Session over server-rendered HTML parsed with goquery.
// No scripts run, so an element is visible as soon as it is in the document.
type StaticSession struct {
	fetch  FetchFunc
	doc    *goquery.Document
	base   *url.URL
	closed bool
}

// NewStaticSession creates a session that fetches pages over plain HTTP
func NewStaticSession() *StaticSession {
	return &StaticSession{fetch: helpers.FetchWithRandomHeaders}
}

// NewStaticSessionWithFetcher creates a session using a custom fetcher
func NewStaticSessionWithFetcher(fetch FetchFunc) *StaticSession {
	return &StaticSession{fetch: fetch}
}

// NewStaticSessionFromHTML creates a session with html already loaded as if
// it had been served from pageURL
func NewStaticSessionFromHTML(html, pageURL string) (*StaticSession, error) {
	s := &StaticSession{}
	if err := s.load(strings.NewReader(html), pageURL); err != nil {
		return nil, err
	}
	return s, nil
}

// Navigate fetches url and parses the document
func (s *StaticSession) Navigate(ctx context.Context, pageURL string) error {
	if s.closed {
		return fmt.Errorf("session closed")
	}
	if s.fetch == nil {
		return errors.NewConfiguration("static session has no fetcher", nil)
	}

	body, err := s.fetch(ctx, pageURL)
	if err != nil {
		return err
	}
	return s.load(body, pageURL)
}

func (s *StaticSession) load(body io.Reader, pageURL string) error {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return errors.NewParsing("static", "failed to parse HTML", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return errors.NewParsing("static", "invalid page URL", err)
	}

	s.doc = doc
	s.base = base
	return nil
}

// WaitVisible returns the first element matching selector. A static document
// never changes, so a missing element times out immediately.
func (s *StaticSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	if s.closed || s.doc == nil {
		return nil, fmt.Errorf("no page loaded")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeout("static", timeout, err)
	}

	sel := s.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, errors.NewTimeout("static", timeout, fmt.Errorf("%s not present", selector))
	}
	return &queryElement{sel: sel, base: s.base}, nil
}

// Close drops the parsed document
func (s *StaticSession) Close() error {
	s.closed = true
	s.doc = nil
	return nil
}

// queryElement adapts a goquery selection holding a single node
type queryElement struct {
	sel  *goquery.Selection
	base *url.URL
}

// NewElement wraps the first node of a goquery selection. Relative href and
// src values are resolved against pageURL when it parses.
func NewElement(sel *goquery.Selection, pageURL string) Element {
	base, _ := url.Parse(pageURL)
	return &queryElement{sel: sel.First(), base: base}
}

func (e *queryElement) Attribute(name string) (*string, error) {
	value, ok := e.sel.Attr(name)
	if !ok {
		return nil, nil
	}
	if (name == "href" || name == "src") && e.base != nil {
		if ref, err := url.Parse(strings.TrimSpace(value)); err == nil {
			value = e.base.ResolveReference(ref).String()
		}
	}
	return &value, nil
}

func (e *queryElement) Find(selector string) (Element, error) {
	found := e.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, errors.NewNotFound("static", selector, nil)
	}
	return &queryElement{sel: found, base: e.base}, nil
}

func (e *queryElement) FindAll(selector string) ([]Element, error) {
	var elements []Element
	e.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &queryElement{sel: s, base: e.base})
	})
	return elements, nil
}

func (e *queryElement) Text() (string, error) {
	return e.sel.Text(), nil
}

func (e *queryElement) OuterHTML() (string, error) {
	return goquery.OuterHtml(e.sel)
}
