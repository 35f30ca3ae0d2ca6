// Package citation decodes the JSON payload carried by tool-role messages.
package citation

import (
	"bytes"
	"encoding/json"

	"github.com/xaenox/chatlog-analytics/internal/models"
)

// Payload is the decoded content of a tool message. It is either a list of
// citations or, when the content is not a citation envelope, the raw text.
type Payload struct {
	Citations []models.Citation
	Raw       string
	opaque    bool
}

// IsOpaque reports whether the content could not be read as citations.
func (p Payload) IsOpaque() bool {
	return p.opaque
}

// Entries returns the citations to render for the payload. An opaque
// payload renders as a single untitled entry holding the raw content.
func (p Payload) Entries() []models.Citation {
	if p.opaque {
		return []models.Citation{{Content: p.Raw, Opaque: true}}
	}
	return p.Citations
}

type envelope struct {
	Citations []json.RawMessage `json:"citations"`
}

// field renders one citation attribute as text. Strings are unquoted,
// null reads as absent and any other value keeps its JSON text.
func field(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw), true
	}
	return compact.String(), true
}

// Parse decodes a tool message. It never fails; invalid JSON, a
// non-object value, a missing or empty citations list or an element that
// is not an object all yield an opaque payload.
func Parse(content string) Payload {
	opaque := Payload{Raw: content, opaque: true}

	var env envelope
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return opaque
	}
	if len(env.Citations) == 0 {
		return opaque
	}

	citations := make([]models.Citation, 0, len(env.Citations))
	for _, raw := range env.Citations {
		// Only a non-object element spoils the list; odd field types do not.
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return opaque
		}

		title, ok := field(obj, "title")
		if !ok {
			title = models.DefaultCitationTitle
		}
		content, _ := field(obj, "content")
		url, _ := field(obj, "url")
		citations = append(citations, models.Citation{
			Title:   title,
			Content: content,
			URL:     url,
		})
	}

	return Payload{Citations: citations, Raw: content}
}
