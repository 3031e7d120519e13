package newsfeed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Keyword is one weighted oil-and-gas term.
type Keyword struct {
	Term   string  `yaml:"term"`
	Weight float64 `yaml:"weight"`
}

// Lexicon holds the relevance keywords and sentiment polarity words.
type Lexicon struct {
	Keywords []Keyword `yaml:"keywords"`
	Positive []string  `yaml:"positive"`
	Negative []string  `yaml:"negative"`
}

// DefaultLexicon parses the embedded lexicon.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexiconYAML)
}

// ParseLexicon parses a YAML lexicon document.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if len(lex.Keywords) == 0 {
		return nil, fmt.Errorf("lexicon has no keywords")
	}
	return &lex, nil
}
