package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout of a document.
type file struct {
	PageWidth  float64  `yaml:"page_width"`
	PageHeight float64  `yaml:"page_height"`
	Pages      int      `yaml:"pages"`
	Objects    []Object `yaml:"objects"`
}

// Load reads a document saved with Save.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(data)
}

// Decode parses a YAML document.
func Decode(data []byte) (*Document, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	if f.PageWidth <= 0 || f.PageHeight <= 0 {
		return nil, fmt.Errorf("document page size %.2fx%.2f: must be positive", f.PageWidth, f.PageHeight)
	}

	doc := New(f.PageWidth, f.PageHeight)
	if f.Pages > 1 {
		doc.Pages = f.Pages
	}
	for _, o := range f.Objects {
		if o.Kind == "" {
			o.Kind = KindText
		}
		if err := doc.Add(o); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Encode renders d as YAML.
func (d *Document) Encode() ([]byte, error) {
	f := file{
		PageWidth:  d.PageWidth,
		PageHeight: d.PageHeight,
		Pages:      d.Pages,
		Objects:    d.Objects(),
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// Save writes d to path as YAML.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
