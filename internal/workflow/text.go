package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	fence = "```"

	// DefaultName is used for the export file name when the document has none.
	DefaultName = "workflow"
)

// StripFence removes a Markdown code fence the model may wrap its answer in.
// A leading ``` (optionally tagged json) and a trailing ``` are removed along
// with surrounding whitespace; unfenced text is only trimmed.
func StripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, fence) {
		return s
	}
	s = s[len(fence):]
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// Format re-serializes text with two-space indentation. Object key order and
// number spellings are preserved.
func Format(text string) (string, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(strings.TrimSpace(text))); err != nil {
		return "", fmt.Errorf("format document: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return "", fmt.Errorf("format document: %w", err)
	}
	return out.String(), nil
}

// FileName derives the download file name from the document's name field.
// Path separators are replaced so the result is always a single path element.
func FileName(text string) string {
	var head struct {
		Name any `json:"name"`
	}
	name := DefaultName
	if err := json.Unmarshal([]byte(text), &head); err == nil {
		if s, ok := head.Name.(string); ok && strings.TrimSpace(s) != "" {
			name = strings.TrimSpace(s)
		}
	}
	name = strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(name)
	if name == "." || name == ".." {
		name = DefaultName
	}
	return name + ".json"
}
