package kb

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// contextLimit caps how many entries are injected into the analysis
// prompt.
const contextLimit = 20

type Entry struct {
	Category string `yaml:"category"`
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
}

// KnowledgeBase holds the regulatory reference snippets fed to the
// analysis prompt as grounding context.
type KnowledgeBase struct {
	entries []Entry
}

// Load reads the knowledge base from a YAML file. A missing file yields
// an empty knowledge base rather than an error; analysis still works,
// just without grounding context.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &KnowledgeBase{}, nil
		}
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}

	return &KnowledgeBase{entries: entries}, nil
}

func (kb *KnowledgeBase) Len() int {
	return len(kb.entries)
}

// Context renders at most 20 entries as "[Category] Title: Content"
// blocks separated by blank lines.
func (kb *KnowledgeBase) Context() string {
	entries := kb.entries
	if len(entries) > contextLimit {
		entries = entries[:contextLimit]
	}

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		category := e.Category
		if category == "" {
			category = "General"
		}
		blocks = append(blocks, fmt.Sprintf("[%s] %s: %s", category, e.Title, e.Content))
	}

	return strings.Join(blocks, "\n\n")
}
