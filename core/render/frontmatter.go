package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/pagemd/core"
	"gopkg.in/yaml.v3"
)

// FrontMatterRenderer writes YAML front matter followed by the content,
// for static site generators and note tools.
type FrontMatterRenderer struct {
	Now Clock
}

type frontMatter struct {
	Title      string `yaml:"title,omitempty"`
	Source     string `yaml:"source,omitempty"`
	Domain     string `yaml:"domain,omitempty"`
	Language   string `yaml:"lang,omitempty"`
	Downloaded string `yaml:"downloaded"`
}

// NewFrontMatterRenderer creates a FrontMatterRenderer using the wall clock.
func NewFrontMatterRenderer() *FrontMatterRenderer {
	return &FrontMatterRenderer{Now: time.Now}
}

// Render encodes the front matter block and appends the content.
func (r *FrontMatterRenderer) Render(result *core.ConversionResult, meta core.PageMetadata) ([]byte, error) {
	fm := frontMatter{
		Title:      result.Title,
		Source:     result.URL,
		Domain:     meta.Domain,
		Language:   meta.Language,
		Downloaded: now(r.Now).UTC().Format(time.RFC3339),
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(result.Content)
	return buf.Bytes(), nil
}

// Extension returns the file extension for front matter output.
func (r *FrontMatterRenderer) Extension() string {
	return ".md"
}
