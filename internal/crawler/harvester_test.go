package crawler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/newsworker/config"
	"sjsage522/newsworker/pkg/errors"
)

func TestHarvestStructural(t *testing.T) {
	session := staticSession(homeHTML)
	h := NewHarvester(session, NewStructuralExtractor(config.DefaultSelectors()), config.DefaultSelectors(), 15*time.Second)

	result := h.Harvest(context.Background(), homeURL)
	require.Equal(t, errors.StatusOK, result.Status)
	assert.NoError(t, result.Err)
	assert.Equal(t, 3, result.Cards)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Records, 3)

	// encounter order is kept
	assert.Equal(t, "1", *result.Records[0].Orden)
	assert.Equal(t, "2", *result.Records[1].Orden)
	assert.Equal(t, "3", *result.Records[2].Orden)

	require.Equal(t, 3, result.Table.Len())
	first := result.Table.Rows[0]
	assert.Equal(t, 5, first.TitleWordCount)
	assert.Equal(t, 34, first.TitleCharCount)
	assert.Equal(t, "Brazil,Issues,New,Betting,Licenses", first.TitleCapitalizedWords)
	assert.Equal(t, "Trends,For", result.Table.Rows[2].TitleCapitalizedWords)

	assert.Equal(t, 1, session.closes)
}

func TestHarvestTimeout(t *testing.T) {
	session := staticSession(`<html><body><div class="loading"></div></body></html>`)
	h := NewHarvester(session, NewStructuralExtractor(config.DefaultSelectors()), config.DefaultSelectors(), 15*time.Second)

	result := h.Harvest(context.Background(), homeURL)
	assert.Equal(t, errors.StatusFailed, result.Status)
	assert.True(t, errors.Is(result.Err, errors.ErrorTypeTimeout))
	assert.Nil(t, result.Table)
	assert.Empty(t, result.Records)
	assert.Equal(t, 1, session.closes)
}

func TestHarvestNavigateError(t *testing.T) {
	session := staticSession(homeHTML)
	session.navigateErr = errors.NewNetwork("rod", "failed to open page", fmt.Errorf("connection refused"))
	h := NewHarvester(session, NewStructuralExtractor(config.DefaultSelectors()), config.DefaultSelectors(), time.Second)

	result := h.Harvest(context.Background(), homeURL)
	assert.Equal(t, errors.StatusFailed, result.Status)
	assert.True(t, errors.Is(result.Err, errors.ErrorTypeNetwork))
	assert.Equal(t, 1, session.closes)
}

func TestHarvestNoCards(t *testing.T) {
	session := staticSession(emptyHomeHTML)
	h := NewHarvester(session, NewStructuralExtractor(config.DefaultSelectors()), config.DefaultSelectors(), time.Second)

	result := h.Harvest(context.Background(), homeURL)
	assert.Equal(t, errors.StatusMiss, result.Status)
	assert.NoError(t, result.Err)
	assert.Equal(t, 0, result.Cards)
	assert.Nil(t, result.Table)
	assert.Equal(t, 1, session.closes)
}

func TestHarvestSemanticSkipsFailedCards(t *testing.T) {
	model := &fakeModel{
		responses: []string{
			"```json\n{\"title_text\": \"Brazil Issues New Betting Licenses\", \"article_link_url\": \"/1\"}\n```",
			"not json at all",
			`{"title_text": "iGaming Trends For 2025", "article_link_url": "/3"}`,
		},
	}
	session := staticSession(homeHTML)
	h := NewHarvester(session, NewSemanticExtractor(model), config.DefaultSelectors(), time.Second)

	result := h.Harvest(context.Background(), homeURL)
	require.Equal(t, errors.StatusOK, result.Status)
	assert.Equal(t, 3, result.Cards)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Brazil Issues New Betting Licenses", *result.Records[0].Title)
	assert.Equal(t, "iGaming Trends For 2025", *result.Records[1].Title)
	assert.Len(t, model.prompts, 3)
	assert.Equal(t, 1, session.closes)
}

func TestHarvestAllSemanticFailures(t *testing.T) {
	model := &fakeModel{errs: []error{fmt.Errorf("a"), fmt.Errorf("b"), fmt.Errorf("c")}}
	session := staticSession(homeHTML)
	h := NewHarvester(session, NewSemanticExtractor(model), config.DefaultSelectors(), time.Second)

	result := h.Harvest(context.Background(), homeURL)
	assert.Equal(t, errors.StatusMiss, result.Status)
	assert.Equal(t, 3, result.Failed)
	assert.Nil(t, result.Table)
}

func TestHarvestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := staticSession(homeHTML)
	h := NewHarvester(session, NewStructuralExtractor(config.DefaultSelectors()), config.DefaultSelectors(), time.Second)

	result := h.Harvest(ctx, homeURL)
	assert.Equal(t, errors.StatusFailed, result.Status)
	assert.Equal(t, 1, session.closes)
}

func TestHarvesterIsSingleUse(t *testing.T) {
	session := staticSession(homeHTML)
	h := NewHarvester(session, NewStructuralExtractor(config.DefaultSelectors()), config.DefaultSelectors(), time.Second)

	first := h.Harvest(context.Background(), homeURL)
	require.Equal(t, errors.StatusOK, first.Status)

	second := h.Harvest(context.Background(), homeURL)
	assert.Equal(t, errors.StatusFailed, second.Status)
	assert.Error(t, second.Err)
	assert.Equal(t, 1, session.closes)
}

func TestNewExtractor(t *testing.T) {
	cfg := config.LoadConfig()

	extractor, err := NewExtractor(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "structural", extractor.Name())

	cfg.ExtractionMode = config.ModeSemantic
	_, err = NewExtractor(cfg, nil)
	assert.True(t, errors.Is(err, errors.ErrorTypeConfiguration))

	extractor, err = NewExtractor(cfg, &fakeModel{})
	require.NoError(t, err)
	assert.Equal(t, "semantic", extractor.Name())

	cfg.ExtractionMode = "regex"
	_, err = NewExtractor(cfg, nil)
	assert.Error(t, err)
}

func TestNewSessionStatic(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.BrowserMode = config.BrowserStatic

	session, err := NewSession(cfg)
	require.NoError(t, err)
	assert.NoError(t, session.Close())

	cfg.BrowserMode = "netscape"
	_, err = NewSession(cfg)
	assert.True(t, errors.Is(err, errors.ErrorTypeConfiguration))
}
