package crawler

import (
	"fmt"

	"sjsage522/newsworker/config"
	"sjsage522/newsworker/internal/ai"
	"sjsage522/newsworker/internal/browser"
	"sjsage522/newsworker/pkg/errors"
)

// NewExtractor returns the extractor for cfg.ExtractionMode. model is only
// used, and only required, in semantic mode.
func NewExtractor(cfg *config.Config, model ai.Model) (Extractor, error) {
	switch cfg.ExtractionMode {
	case config.ModeStructural:
		return NewStructuralExtractor(cfg.Selectors), nil
	case config.ModeSemantic:
		if model == nil {
			return nil, errors.NewConfiguration("semantic extraction needs a model", nil)
		}
		return NewSemanticExtractor(model), nil
	default:
		return nil, errors.NewConfiguration(fmt.Sprintf("unknown EXTRACTION_MODE %q", cfg.ExtractionMode), nil)
	}
}

// NewSession opens the browsing session for cfg.BrowserMode
func NewSession(cfg *config.Config) (browser.Session, error) {
	switch cfg.BrowserMode {
	case config.BrowserRod:
		session, err := browser.NewRodSession(cfg.BrowserURL)
		if err != nil {
			return nil, err
		}
		return session, nil
	case config.BrowserStatic:
		return browser.NewStaticSession(), nil
	default:
		return nil, errors.NewConfiguration(fmt.Sprintf("unknown BROWSER_MODE %q", cfg.BrowserMode), nil)
	}
}
