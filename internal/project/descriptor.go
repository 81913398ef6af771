// Package project holds the typed project descriptor (ccp4m.yaml) and its
// round trip to disk.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Electrux/CCP4M-Final/internal/fsutil"
	"github.com/Electrux/CCP4M-Final/internal/platform"
	"gopkg.in/yaml.v3"
)

// DateFormat is the layout of build_date.
const DateFormat = time.RFC3339

var (
	// ErrEmptyDescriptor indicates the descriptor file holds no document.
	ErrEmptyDescriptor = errors.New("descriptor is empty")
)

// Author identifies who owns the project.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Descriptor is the in-memory form of a project's ccp4m.yaml.
type Descriptor struct {
	Name      string              `yaml:"name"`
	Version   string              `yaml:"version,omitempty"`
	Lang      string              `yaml:"lang,omitempty"` // c or c++
	Std       platform.Value[int] `yaml:"std,omitempty"`
	Author    *Author             `yaml:"author,omitempty"`
	BuildDate string              `yaml:"build_date,omitempty"`
	Targets   []Target            `yaml:"targets"`

	// doc is the parsed file; Encode writes it back.
	doc *yaml.Node
}

// Load reads and decodes a descriptor file.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}
	return Parse(data)
}

// Parse decodes descriptor bytes.
func Parse(data []byte) (*Descriptor, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmptyDescriptor
	}

	var d Descriptor
	if err := doc.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	for i := range d.Targets {
		d.Targets[i].Type = d.Targets[i].Type.Normalize()
	}
	d.doc = &doc
	return &d, nil
}

// Encode renders the descriptor. A loaded descriptor is written back from
// its original document with only build_date replaced.
func (d *Descriptor) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if d.doc != nil {
		if err := setMappingValue(d.doc, "build_date", d.BuildDate); err != nil {
			return nil, err
		}
		if err := enc.Encode(d.doc); err != nil {
			return nil, fmt.Errorf("failed to encode descriptor: %w", err)
		}
	} else if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the descriptor to path, replacing the file atomically.
func (d *Descriptor) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// StampBuildDate records t as the last successful build.
func (d *Descriptor) StampBuildDate(t time.Time) {
	d.BuildDate = t.UTC().Format(DateFormat)
}

// Language returns the project language, c++ unless set to c.
func (d *Descriptor) Language() string {
	if d.Lang == "c" {
		return "c"
	}
	return "c++"
}

func setMappingValue(doc *yaml.Node, key, value string) error {
	root := doc
	if root.Kind == yaml.DocumentNode {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("descriptor root is not a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			v := root.Content[i+1]
			v.Kind = yaml.ScalarNode
			v.Tag = "!!str"
			v.Value = value
			v.Content = nil
			return nil
		}
	}
	if value == "" {
		return nil
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
	return nil
}
