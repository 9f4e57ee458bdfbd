package crawler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/newsworker/pkg/errors"
)

const cardHTML = `<div class="slot noticia" orden="1"><h2 class="titulo"><a href="/n/1">Hello World Today</a></h2></div>`

func TestSemanticExtractorFencedResponse(t *testing.T) {
	model := &fakeModel{responses: []string{"```json\n" + `{
		"title_text": "Hello World Today",
		"kicker_text": "Regulation",
		"article_link_url": "https://www.yogonet.com/n/1",
		"image_src_url": "https://imagenes.yogonet.com/1.jpg"
	}` + "\n```"}}

	extraction := NewSemanticExtractor(model).ExtractHTML(context.Background(), cardHTML)
	require.Equal(t, errors.StatusOK, extraction.Status)
	require.NotNil(t, extraction.Record)

	record := extraction.Record
	assert.Equal(t, "Hello World Today", *record.Title)
	assert.Equal(t, "Regulation", *record.Kicker)
	assert.Equal(t, "https://www.yogonet.com/n/1", *record.Link)
	assert.Equal(t, "https://www.yogonet.com/n/1", *record.ImageHref)
	assert.Equal(t, "https://imagenes.yogonet.com/1.jpg", *record.ImageSrc)
	assert.Nil(t, record.Orden)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], cardHTML)
	assert.NotContains(t, model.prompts[0], htmlPlaceholder)
}

func TestSemanticExtractorUnparsableResponse(t *testing.T) {
	model := &fakeModel{responses: []string{"Sure! The title is Hello World Today."}}

	extraction := NewSemanticExtractor(model).ExtractHTML(context.Background(), cardHTML)
	assert.Equal(t, errors.StatusFailed, extraction.Status)
	assert.Nil(t, extraction.Record)
	assert.True(t, errors.Is(extraction.Err, errors.ErrorTypeParsing))
}

func TestSemanticExtractorNullResponse(t *testing.T) {
	model := &fakeModel{responses: []string{"null"}}

	extraction := NewSemanticExtractor(model).ExtractHTML(context.Background(), cardHTML)
	assert.Equal(t, errors.StatusFailed, extraction.Status)
	assert.Nil(t, extraction.Record)
	assert.True(t, errors.Is(extraction.Err, errors.ErrorTypeParsing))
}

func TestSemanticExtractorModelError(t *testing.T) {
	model := &fakeModel{errs: []error{errors.NewAI("gemini", "quota", fmt.Errorf("429"))}}

	extraction := NewSemanticExtractor(model).ExtractHTML(context.Background(), cardHTML)
	assert.Equal(t, errors.StatusFailed, extraction.Status)
	assert.Nil(t, extraction.Record)
	assert.True(t, errors.Is(extraction.Err, errors.ErrorTypeAI))
}

func TestSemanticExtractorRecoversPanic(t *testing.T) {
	model := &fakeModel{panicMsg: "nil response"}

	extraction := NewSemanticExtractor(model).ExtractHTML(context.Background(), cardHTML)
	assert.Equal(t, errors.StatusFailed, extraction.Status)
	assert.Nil(t, extraction.Record)
	assert.Contains(t, extraction.Err.Error(), "nil response")
}

func TestSemanticExtractorMissingKeys(t *testing.T) {
	model := &fakeModel{responses: []string{`{"kicker_text": null}`}}

	extraction := NewSemanticExtractor(model).ExtractHTML(context.Background(), cardHTML)
	assert.Equal(t, errors.StatusMiss, extraction.Status)
	assert.Equal(t, []string{"title", "link"}, extraction.Missing)
	require.NotNil(t, extraction.Record)
	assert.Nil(t, extraction.Record.Title)
	assert.Nil(t, extraction.Record.Kicker)
	assert.Nil(t, extraction.Record.ImageHref)
}

func TestSemanticExtractorFromElement(t *testing.T) {
	model := &fakeModel{responses: []string{`{"title_text": "Brazil Issues New Betting Licenses", "article_link_url": "/a"}`}}

	extraction := NewSemanticExtractor(model).Extract(context.Background(), homeCards(t)[0])
	require.Equal(t, errors.StatusOK, extraction.Status)
	assert.Equal(t, "Brazil Issues New Betting Licenses", *extraction.Record.Title)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], `orden="1"`)
	assert.Contains(t, model.prompts[0], `class="volanta"`)
}

func TestSemanticExtractorNilCard(t *testing.T) {
	model := &fakeModel{}

	extraction := NewSemanticExtractor(model).Extract(context.Background(), nil)
	assert.Equal(t, errors.StatusFailed, extraction.Status)
	assert.Empty(t, model.prompts)
}

func TestSemanticExtractorTemplateWithoutPlaceholder(t *testing.T) {
	model := &fakeModel{responses: []string{`{"title_text": "A", "article_link_url": "/a"}`}}

	extraction := NewSemanticExtractorWithTemplate(model, "Extract the news card.").ExtractHTML(context.Background(), cardHTML)
	assert.Equal(t, errors.StatusOK, extraction.Status)
	require.Len(t, model.prompts, 1)
	assert.Equal(t, "Extract the news card.", model.prompts[0])
}

func TestParseResponseImageLink(t *testing.T) {
	record, err := ParseResponse(`{
		"title_text": "A",
		"article_link_url": "https://www.yogonet.com/a",
		"image_src_url": "https://imagenes.yogonet.com/a.jpg",
		"image_link_url": "https://www.yogonet.com/gallery/a"
	}`)
	require.NoError(t, err)
	assert.Equal(t, "https://www.yogonet.com/a", *record.Link)
	assert.Equal(t, "https://www.yogonet.com/gallery/a", *record.ImageHref)

	record, err = ParseResponse(`{"article_link_url": "https://www.yogonet.com/a", "image_link_url": ""}`)
	require.NoError(t, err)
	assert.Equal(t, "https://www.yogonet.com/a", *record.ImageHref)
}

func TestParseResponseRejectsNonObjects(t *testing.T) {
	for _, text := range []string{"", "null", "```json\nnull\n```", "[1, 2]", `"title"`, "```\nnot json\n```"} {
		_, err := ParseResponse(text)
		assert.Error(t, err, text)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		`{"a": 1}`:                 `{"a": 1}`,
		"  {\"a\": 1}\n":           `{"a": 1}`,
		"```json\n{\"a\": 1}\n```": `{"a": 1}`,
		"```\n{\"a\": 1}\n```":     `{"a": 1}`,
		"```json{\"a\": 1}```":     `{"a": 1}`,
		"```json\n{\"a\": 1}":      `{"a": 1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, stripCodeFence(in), strings.ReplaceAll(in, "\n", `\n`))
	}
}
