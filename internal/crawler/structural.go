package crawler

import (
	"context"
	"strings"

	"sjsage522/newsworker/config"
	"sjsage522/newsworker/internal/browser"
	"sjsage522/newsworker/internal/models"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/pkg/errors"
)

// StructuralExtractor reads card fields through fixed CSS lookups.
// Each lookup is independent: a missing element only leaves its own fields nil.
type StructuralExtractor struct {
	selectors config.Selectors
	log       *logger.Logger
}

// NewStructuralExtractor creates a structural extractor
func NewStructuralExtractor(selectors config.Selectors) *StructuralExtractor {
	return &StructuralExtractor{
		selectors: selectors,
		log:       logger.ForExtractor("structural"),
	}
}

// Name returns the extractor name
func (e *StructuralExtractor) Name() string {
	return "structural"
}

// Extract reads orden, kicker, title, link, image_href and image_src from card
func (e *StructuralExtractor) Extract(ctx context.Context, card browser.Element) Extraction {
	record := &models.NewsRecord{}
	if card == nil {
		err := errors.NewParsing("structural", "card is not an element", nil)
		e.log.Error().Err(err).Msg("Skipping card")
		return Extraction{Record: record, Status: errors.StatusFailed, Err: err}
	}

	var missing []string
	miss := func(fields []string, err error) {
		missing = append(missing, fields...)
		e.log.Warn().Err(err).Strs("fields", fields).Msg("Field not found on card")
	}

	if orden, err := e.order(card); err != nil {
		miss([]string{"orden"}, err)
	} else {
		record.Orden = orden
	}

	if kicker, err := e.kicker(card); err != nil {
		miss([]string{"kicker"}, err)
	} else {
		record.Kicker = kicker
	}

	if err := e.title(card, record); err != nil {
		miss([]string{"title", "link"}, err)
	} else if record.Link == nil {
		miss([]string{"link"}, errors.NewNotFound("structural", "attribute href", nil))
	}

	if err := e.image(card, record); err != nil {
		var fields []string
		if record.ImageHref == nil {
			fields = append(fields, "image_href")
		}
		miss(append(fields, "image_src"), err)
	} else if fields := nilImageFields(record); len(fields) > 0 {
		miss(fields, errors.NewNotFound("structural", "image attribute", nil))
	}

	status := errors.StatusOK
	if len(missing) > 0 {
		status = errors.StatusMiss
	}
	return Extraction{Record: record, Status: status, Missing: missing}
}

func (e *StructuralExtractor) order(card browser.Element) (*string, error) {
	orden, err := card.Attribute(e.selectors.OrderAttr)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, errors.NewNotFound("structural", "attribute "+e.selectors.OrderAttr, nil)
	}
	return orden, nil
}

func (e *StructuralExtractor) kicker(card browser.Element) (*string, error) {
	el, err := card.Find(e.selectors.Kicker)
	if err != nil {
		return nil, err
	}
	text, err := el.Text()
	if err != nil {
		return nil, err
	}
	return models.StringPtr(strings.TrimSpace(text)), nil
}

// title fills title and link from the first anchor of the title heading
func (e *StructuralExtractor) title(card browser.Element, record *models.NewsRecord) error {
	heading, err := card.Find(e.selectors.Title)
	if err != nil {
		return err
	}
	anchor, err := heading.Find(e.selectors.Anchor)
	if err != nil {
		return err
	}

	href, err := anchor.Attribute("href")
	if err != nil {
		return err
	}
	text, err := anchor.Text()
	if err != nil {
		return err
	}

	record.Link = href
	record.Title = models.StringPtr(strings.TrimSpace(text))
	return nil
}

// image fills image_href from the anchor in the image block, then image_src
// from the image inside that anchor
func (e *StructuralExtractor) image(card browser.Element, record *models.NewsRecord) error {
	block, err := card.Find(e.selectors.ImageBlock)
	if err != nil {
		return err
	}
	anchor, err := block.Find(e.selectors.Anchor)
	if err != nil {
		return err
	}

	href, err := anchor.Attribute("href")
	if err != nil {
		return err
	}
	record.ImageHref = href

	img, err := anchor.Find(e.selectors.Image)
	if err != nil {
		return err
	}
	src, err := img.Attribute("src")
	if err != nil {
		return err
	}
	record.ImageSrc = src
	return nil
}

// nilImageFields names the image fields whose attribute was absent
func nilImageFields(record *models.NewsRecord) []string {
	var fields []string
	if record.ImageHref == nil {
		fields = append(fields, "image_href")
	}
	if record.ImageSrc == nil {
		fields = append(fields, "image_src")
	}
	return fields
}
