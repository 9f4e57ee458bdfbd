package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"

	"sjsage522/newsworker/internal/ai"
	"sjsage522/newsworker/internal/browser"
	"sjsage522/newsworker/internal/models"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/pkg/errors"
)

// htmlPlaceholder marks where the card markup goes in the prompt template
const htmlPlaceholder = "{HTML}"

// PromptTemplate asks the model for the card fields as a bare JSON object
const PromptTemplate = `You extract structured data from HTML.
Below is the HTML of a single block (<div>) representing one news article teaser from the Yogonet homepage.

Identify the following parts semantically, even if the CSS classes or the structure differ slightly:
1. The main text of the article **title**.
2. The text of the **kicker** (the short phrase that sometimes appears right above the title). If there is no clear kicker, return null or an empty string.
3. The **article link URL** (usually the 'href' of the <a> tag wrapping the title).
4. The **image URL** of the article (usually the 'src' of the main <img>). If there is no clear image, return null or an empty string.
5. The **image link URL** (the 'href' of the <a> tag wrapping the image). If the image is not wrapped in a link, return null.

Hints (do not rely on them exclusively):
- The title is usually inside an <h2> with class 'titulo' containing an <a> link.
- The kicker is usually short text in a <div> with class 'volanta', placed near and before the title.
- The main image is usually inside a <div> with class 'imagen', wrapped in an <a> link. Extract the 'src' of the <img>.

IMPORTANT: Answer **only** with a valid JSON object using exactly these keys: "title_text", "kicker_text", "article_link_url", "image_src_url", "image_link_url". Do not include explanations, introductory text, or formatting markers such as ` + "```json" + `. Only the JSON object.

HTML of the news block to analyze:
{HTML}
`

// modelResponse is the JSON object the prompt asks for. Absent keys stay nil.
type modelResponse struct {
	TitleText      *string `json:"title_text"`
	KickerText     *string `json:"kicker_text"`
	ArticleLinkURL *string `json:"article_link_url"`
	ImageSrcURL    *string `json:"image_src_url"`
	ImageLinkURL   *string `json:"image_link_url"`
}

// SemanticExtractor asks a generative model to read the card markup
type SemanticExtractor struct {
	model    ai.Model
	template string
	log      *logger.Logger
}

// NewSemanticExtractor creates a semantic extractor using PromptTemplate
func NewSemanticExtractor(model ai.Model) *SemanticExtractor {
	return NewSemanticExtractorWithTemplate(model, PromptTemplate)
}

// NewSemanticExtractorWithTemplate creates a semantic extractor with a custom
// prompt template. The template should contain the {HTML} placeholder.
func NewSemanticExtractorWithTemplate(model ai.Model, template string) *SemanticExtractor {
	return &SemanticExtractor{
		model:    model,
		template: template,
		log:      logger.ForExtractor("semantic"),
	}
}

// Name returns the extractor name
func (e *SemanticExtractor) Name() string {
	return "semantic"
}

// Extract sends the outer HTML of card to the model
func (e *SemanticExtractor) Extract(ctx context.Context, card browser.Element) Extraction {
	if card == nil {
		err := errors.NewParsing("semantic", "card is not an element", nil)
		e.log.Error().Err(err).Msg("Skipping card")
		return Extraction{Status: errors.StatusFailed, Err: err}
	}

	html, err := card.OuterHTML()
	if err != nil {
		e.log.Error().Err(err).Msg("Failed to read card markup")
		return Extraction{Status: errors.StatusFailed, Err: err}
	}
	return e.ExtractHTML(ctx, html)
}

// ExtractHTML runs prompt build, model call and response parsing for one
// card's markup. Any failure, including a panic in the model client, comes
// back as StatusFailed with a nil record.
func (e *SemanticExtractor) ExtractHTML(ctx context.Context, html string) (result Extraction) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.NewAI("semantic", "model call panicked", fmt.Errorf("%v", r))
			e.log.Error().Err(err).Str("stack", string(debug.Stack())).Msg("Unexpected failure calling the model or parsing")
			result = Extraction{Status: errors.StatusFailed, Err: err}
		}
	}()

	prompt := e.buildPrompt(html)

	e.log.Debug().Str("model", e.model.Name()).Msg("Calling model")
	text, err := e.model.Generate(ctx, prompt)
	if err != nil {
		e.log.Error().Err(err).Str("stack", string(debug.Stack())).Msg("Unexpected failure calling the model or parsing")
		return Extraction{Status: errors.StatusFailed, Err: err}
	}

	record, err := ParseResponse(text)
	if err != nil {
		e.log.Error().Err(err).Str("response", text).Msg("Failed to parse model response")
		return Extraction{Status: errors.StatusFailed, Err: err}
	}

	e.log.Debug().Msg("Model response parsed")

	var missing []string
	if record.Title == nil {
		missing = append(missing, "title")
	}
	if record.Link == nil {
		missing = append(missing, "link")
	}
	status := errors.StatusOK
	if len(missing) > 0 {
		status = errors.StatusMiss
	}
	return Extraction{Record: record, Status: status, Missing: missing}
}

func (e *SemanticExtractor) buildPrompt(html string) string {
	if !strings.Contains(e.template, htmlPlaceholder) {
		e.log.Warn().Msg("Prompt template has no {HTML} placeholder")
	}
	return strings.ReplaceAll(e.template, htmlPlaceholder, html)
}

// ParseResponse strips an optional code fence from the model output and maps
// the JSON keys onto a record. Without an image_link_url the article link
// doubles as image_href.
func ParseResponse(text string) (*models.NewsRecord, error) {
	body := []byte(stripCodeFence(text))

	// A bare null decodes into a nil map without error.
	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil || object == nil {
		return nil, errors.NewParsing("semantic", "model response is not a JSON object", err)
	}

	var resp modelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewParsing("semantic", "model response has malformed fields", err)
	}

	record := &models.NewsRecord{
		Title:     resp.TitleText,
		Kicker:    resp.KickerText,
		Link:      resp.ArticleLinkURL,
		ImageSrc:  resp.ImageSrcURL,
		ImageHref: resp.ArticleLinkURL,
	}
	if models.Deref(resp.ImageLinkURL) != "" {
		record.ImageHref = resp.ImageLinkURL
	}
	return record, nil
}

// stripCodeFence removes a ```json or bare ``` wrapper
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
