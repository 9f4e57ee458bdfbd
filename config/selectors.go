package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors contains the CSS selectors used to walk the news homepage
type Selectors struct {
	Container  string `yaml:"container"`
	Card       string `yaml:"card"`
	Kicker     string `yaml:"kicker"`
	Title      string `yaml:"title"`
	ImageBlock string `yaml:"image_block"`
	Anchor     string `yaml:"anchor"`
	Image      string `yaml:"image"`
	OrderAttr  string `yaml:"order_attr"`
}

// DefaultSelectors returns the selectors matching the current homepage layout
func DefaultSelectors() Selectors {
	return Selectors{
		Container:  ".contenedor_general_estructura.estructura_home",
		Card:       `[class*="slot"][class*="noticia"]`,
		Kicker:     ".volanta",
		Title:      "h2.titulo",
		ImageBlock: "div.imagen",
		Anchor:     "a",
		Image:      "img",
		OrderAttr:  "orden",
	}
}

// LoadSelectors reads selector overrides from a YAML file. Keys missing
// from the file keep their default value.
func LoadSelectors(path string) (Selectors, error) {
	selectors := DefaultSelectors()

	data, err := os.ReadFile(path)
	if err != nil {
		return selectors, fmt.Errorf("failed to read selectors file: %w", err)
	}

	if err := yaml.Unmarshal(data, &selectors); err != nil {
		return selectors, fmt.Errorf("failed to parse selectors file: %w", err)
	}

	return selectors, nil
}
