package manifest

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Summary holds the tensor sizes recorded in the metadata file.
// Train and Test are review counts.
type Summary struct {
	Users    int `json:"users"`
	Products int `json:"products"`
	Words    int `json:"words"`
	Train    int `json:"train"`
	Test     int `json:"test"`
}

// Meta is the content of the metadata file.
type Meta struct {
	Summary Summary
	// Vocab lists the vocabulary; the index of a word is its id.
	Vocab []string
}

type vocabPart struct {
	Vocab []string `json:"vocab"`
}

// MarshalJSON encodes m as [summary, {"vocab": [...]}].
func (m Meta) MarshalJSON() ([]byte, error) {
	vocab := m.Vocab
	if vocab == nil {
		vocab = []string{}
	}
	return json.Marshal([]any{m.Summary, vocabPart{Vocab: vocab}})
}

// UnmarshalJSON decodes the two element array form.
func (m *Meta) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("manifest: metadata has %d parts, expected 2", len(parts))
	}
	if err := json.Unmarshal(parts[0], &m.Summary); err != nil {
		return fmt.Errorf("manifest: summary: %w", err)
	}
	var v vocabPart
	if err := json.Unmarshal(parts[1], &v); err != nil {
		return fmt.Errorf("manifest: vocab: %w", err)
	}
	m.Vocab = v.Vocab
	return nil
}
