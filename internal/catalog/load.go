package catalog

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/trailmap/pkg/types"
)

//go:embed data/trails.json data/reviews.json
var bundled embed.FS

// Format identifies the encoding of a data file.
type Format string

// Supported data file formats.
const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ErrUnsupportedFormat is returned for a data file whose extension names no
// known format.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// Source names the data files a catalog is built from. An empty TrailsPath
// selects the bundled sample data, including its reviews unless
// ReviewsPath is set. An empty ReviewsPath with a TrailsPath means no
// reviews.
type Source struct {
	TrailsPath  string `json:"trails_path,omitempty" yaml:"trails_path,omitempty"`
	ReviewsPath string `json:"reviews_path,omitempty" yaml:"reviews_path,omitempty"`
}

// Bundled reports whether the source uses the embedded trail data.
func (s Source) Bundled() bool {
	return s.TrailsPath == ""
}

// Load reads and validates the catalog described by src.
func Load(src Source) (*Catalog, error) {
	var (
		trails  []types.Trail
		reviews []types.Review
		err     error
	)
	if src.Bundled() {
		trails, err = bundledTrails()
	} else {
		trails, err = readFile(src.TrailsPath, ReadTrails)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case src.ReviewsPath != "":
		reviews, err = readFile(src.ReviewsPath, ReadReviews)
	case src.Bundled():
		reviews, err = bundledReviews()
	}
	if err != nil {
		return nil, err
	}
	return New(trails, reviews)
}

// LoadBundled builds the catalog from the embedded sample data.
func LoadBundled() (*Catalog, error) {
	return Load(Source{})
}

func bundledTrails() ([]types.Trail, error) {
	b, err := bundled.ReadFile("data/trails.json")
	if err != nil {
		return nil, fmt.Errorf("reading bundled trails: %w", err)
	}
	return ReadTrails(bytes.NewReader(b), FormatJSON)
}

func bundledReviews() ([]types.Review, error) {
	b, err := bundled.ReadFile("data/reviews.json")
	if err != nil {
		return nil, fmt.Errorf("reading bundled reviews: %w", err)
	}
	return ReadReviews(bytes.NewReader(b), FormatJSON)
}

func readFile[T any](path string, read func(io.Reader, Format) ([]T, error)) ([]T, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	out, err := read(f, format)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}

// ReadTrails decodes trail records in the given format.
func ReadTrails(r io.Reader, format Format) ([]types.Trail, error) {
	recs, err := decode[trailRecord](r, format)
	if err != nil {
		return nil, err
	}
	out := make([]types.Trail, len(recs))
	for i, rec := range recs {
		out[i] = rec.trail()
	}
	return out, nil
}

// ReadReviews decodes review records in the given format.
func ReadReviews(r io.Reader, format Format) ([]types.Review, error) {
	recs, err := decode[reviewRecord](r, format)
	if err != nil {
		return nil, err
	}
	out := make([]types.Review, len(recs))
	for i, rec := range recs {
		out[i] = rec.review()
	}
	return out, nil
}

func decode[T any](r io.Reader, format Format) ([]T, error) {
	var out []T
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatJSONL:
		lines, err := readJSONL(r)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			var rec T
			if err := json.Unmarshal(line, &rec); err != nil {
				continue
			}
			out = append(out, rec)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	return out, nil
}

// readJSONL returns each non-empty, well-formed line as a raw record.
// Malformed lines are skipped.
func readJSONL(r io.Reader) ([]json.RawMessage, error) {
	var records []json.RawMessage
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning jsonl: %w", err)
	}
	return records, nil
}
