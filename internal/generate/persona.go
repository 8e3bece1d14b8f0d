package generate

import (
	"encoding/json"
	"fmt"
	"os"
)

// Persona is the opaque writing-style bundle merged into prompts. The
// pipeline never interprets its content; it only formats the fields below
// into the generation prompt.
type Persona struct {
	CuratorStyle struct {
		VoiceExamples []string `json:"voice_examples"`
	} `json:"twitter_curator_style"`
	TopicEvolution map[string]string `json:"topic_evolution"`
}

// LoadPersona reads the persona JSON file. An empty path yields an empty
// persona so generation still works without style material.
func LoadPersona(path string) (Persona, error) {
	var persona Persona
	if path == "" {
		return persona, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return persona, fmt.Errorf("read persona: %w", err)
	}
	if err := json.Unmarshal(raw, &persona); err != nil {
		return persona, fmt.Errorf("parse persona: %w", err)
	}
	return persona, nil
}
