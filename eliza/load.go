package eliza

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of a rules document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// maxRulesSize caps the size of a downloaded rules document.
const maxRulesSize = 4 << 20

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// FormatFromPath guesses the document format from a file extension. Anything
// that is not YAML is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseRules decodes a rules document. It does not validate the result; New does.
func ParseRules(data []byte, format Format) (Rules, error) {
	var rules Rules
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &rules)
	default:
		err = json.Unmarshal(data, &rules)
	}
	if err != nil {
		return Rules{}, fmt.Errorf("failed to parse %s rules: %w", format, err)
	}
	return rules, nil
}

// LoadRules reads a rules document from disk.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules: %w", err)
	}
	return ParseRules(data, FormatFromPath(path))
}

// FetchRules downloads and decodes a rules document. The format comes from the
// URL path, or from the Content-Type header when the path has no YAML extension.
func FetchRules(ctx context.Context, client *http.Client, rawURL string) (Rules, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Rules{}, fmt.Errorf("invalid rules url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Rules{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to fetch rules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Rules{}, fmt.Errorf("failed to fetch rules: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRulesSize+1))
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules: %w", err)
	}
	if len(data) > maxRulesSize {
		return Rules{}, fmt.Errorf("rules document is larger than %d bytes", maxRulesSize)
	}

	format := FormatFromPath(u.Path)
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && strings.Contains(mt, "yaml") {
		format = FormatYAML
	}
	return ParseRules(data, format)
}

// MarshalRules encodes rules as JSON, the format the bot stores them in.
func MarshalRules(rules Rules) ([]byte, error) {
	return json.Marshal(rules)
}
