package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sjsage522/newsworker/config"
	"sjsage522/newsworker/internal/browser"
	"sjsage522/newsworker/internal/table"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/pkg/errors"
)

// Harvester walks the news cards of one page with an Extractor.
// It owns its session: the session is closed when Harvest returns and a
// Harvester cannot be reused.
type Harvester struct {
	session   browser.Session
	extractor Extractor
	selectors config.Selectors
	timeout   time.Duration
	log       *logger.Logger

	releaseOnce sync.Once
	released    bool
}

// NewHarvester creates a harvester over session
func NewHarvester(session browser.Session, extractor Extractor, selectors config.Selectors, timeout time.Duration) *Harvester {
	return &Harvester{
		session:   session,
		extractor: extractor,
		selectors: selectors,
		timeout:   timeout,
		log:       logger.ForHarvester().WithField("extractor", extractor.Name()),
	}
}

// Harvest loads url, waits for the main container and extracts every card in
// document order. The session is released on every path out.
func (h *Harvester) Harvest(ctx context.Context, url string) (result HarvestResult) {
	if h.released {
		err := fmt.Errorf("harvester session already released")
		return HarvestResult{Status: errors.StatusFailed, Err: err}
	}
	defer h.release()
	defer func() {
		if r := recover(); r != nil {
			err := errors.NewParsing("harvester", "harvest panicked", fmt.Errorf("%v", r))
			h.log.Error().Err(err).Msg("Harvest aborted")
			result = HarvestResult{Status: errors.StatusFailed, Err: err}
		}
	}()

	if err := h.session.Navigate(ctx, url); err != nil {
		h.log.Error().Err(err).Str("url", url).Msg("Failed to load page")
		return HarvestResult{Status: errors.StatusFailed, Err: err}
	}

	h.log.Info().Dur("timeout", h.timeout).Msg("Waiting for the main content to load")
	container, err := h.session.WaitVisible(ctx, h.selectors.Container, h.timeout)
	if err != nil {
		if errors.Is(err, errors.ErrorTypeTimeout) {
			h.log.Error().Err(err).Dur("timeout", h.timeout).Msg("Main content did not load in time")
		} else {
			h.log.Error().Err(err).Msg("Failed waiting for the main content")
		}
		return HarvestResult{Status: errors.StatusFailed, Err: err}
	}

	cards, err := container.FindAll(h.selectors.Card)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to enumerate news cards")
		return HarvestResult{Status: errors.StatusFailed, Err: err}
	}
	h.log.Info().Int("cards", len(cards)).Msg("Found news cards")

	result = HarvestResult{Cards: len(cards)}
	for i, card := range cards {
		if err := ctx.Err(); err != nil {
			h.log.Warn().Err(err).Int("card", i).Msg("Harvest cancelled")
			result.Status = errors.StatusFailed
			result.Err = err
			return result
		}

		extraction := h.extractor.Extract(ctx, card)
		if extraction.Status == errors.StatusFailed {
			result.Failed++
		}
		if extraction.Record == nil {
			continue
		}
		result.Records = append(result.Records, *extraction.Record)
	}

	if len(result.Records) == 0 {
		result.Status = errors.StatusMiss
		h.log.Warn().Int("cards", result.Cards).Int("failed", result.Failed).Msg("No records extracted")
		return result
	}

	result.Status = errors.StatusOK
	result.Table = table.Tabulate(result.Records)
	h.log.Info().
		Int("records", len(result.Records)).
		Int("failed", result.Failed).
		Msg("Harvest complete")
	return result
}

// release closes the session exactly once
func (h *Harvester) release() {
	h.releaseOnce.Do(func() {
		h.released = true
		h.log.Debug().Msg("Closing browser session")
		if err := h.session.Close(); err != nil {
			h.log.Warn().Err(err).Msg("Failed to close browser session")
			return
		}
		h.log.Debug().Msg("Browser session closed")
	})
}

