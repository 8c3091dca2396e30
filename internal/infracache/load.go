package infracache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"infracheck/pkg/domain"
)

// ErrInvalidObject is returned when an input object cannot be cached at all,
// as opposed to a finding that checkers report.
var ErrInvalidObject = errors.New("invalid object")

// Format names an input encoding accepted by Load.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the on-disk representation of an infrastructure.
type Document struct {
	Version           string                    `json:"version,omitempty" yaml:"version,omitempty"`
	TrackSections     []domain.TrackSection     `json:"track_sections" yaml:"track_sections"`
	TrackSectionLinks []domain.TrackSectionLink `json:"track_section_links" yaml:"track_section_links"`
	Detectors         []domain.Detector         `json:"detectors" yaml:"detectors"`
	Signals           []domain.Signal           `json:"signals" yaml:"signals"`
	BufferStops       []domain.BufferStop       `json:"buffer_stops" yaml:"buffer_stops"`
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and caches the infrastructure stored at path.
func LoadFile(path string) (*InfraCache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open infra: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, FormatFromPath(path))
}

// Load decodes a document in the given format and builds a cache from it.
func Load(r io.Reader, format Format) (*InfraCache, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json infra: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml infra: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported infra format %q", format)
	}
	return FromDocument(doc)
}

// FromDocument caches every object of doc, rejecting objects that cannot be
// addressed or measured.
func FromDocument(doc Document) (*InfraCache, error) {
	c := New()
	for _, t := range doc.TrackSections {
		if !finite(t.Length) || t.Length < 0 {
			return nil, fmt.Errorf("%w: track section %s has length %v", ErrInvalidObject, t.ID, t.Length)
		}
		if err := insert(c, t); err != nil {
			return nil, err
		}
	}
	for _, l := range doc.TrackSectionLinks {
		if err := insert(c, l); err != nil {
			return nil, err
		}
	}
	for _, d := range doc.Detectors {
		if err := insertLocated(c, d, d.Position); err != nil {
			return nil, err
		}
	}
	for _, s := range doc.Signals {
		if err := insertLocated(c, s, s.Position); err != nil {
			return nil, err
		}
	}
	for _, b := range doc.BufferStops {
		if err := insertLocated(c, b, b.Position); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func insertLocated(c *InfraCache, obj domain.Object, position float64) error {
	if !finite(position) {
		return fmt.Errorf("%w: %s has position %v", ErrInvalidObject, domain.RefOf(obj), position)
	}
	return insert(c, obj)
}

func insert(c *InfraCache, obj domain.Object) error {
	if strings.TrimSpace(obj.GetID()) == "" {
		return fmt.Errorf("%w: %s without id", ErrInvalidObject, obj.GetType())
	}
	return c.Insert(obj)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
