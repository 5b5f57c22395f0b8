package service

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

// ParseChoiceOptions decodes the serialized option list of a CHOICE_SINGLE question.
// Both plain strings and {key,label} objects are accepted. Keys are upper-cased and
// trimmed so they line up with tallied answers. Malformed input yields nil.
func ParseChoiceOptions(raw *string) []models.ChoiceOption {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil
	}

	options := make([]models.ChoiceOption, 0, len(entries))
	for _, entry := range entries {
		var plain string
		if err := json.Unmarshal(entry, &plain); err == nil {
			label := strings.TrimSpace(plain)
			key := strings.ToUpper(label)
			if key == "" {
				continue
			}
			options = append(options, models.ChoiceOption{Key: key, Label: label})
			continue
		}

		var obj map[string]interface{}
		if err := json.Unmarshal(entry, &obj); err != nil || obj == nil {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(stringify(obj["key"])))
		if key == "" {
			continue
		}
		label := strings.TrimSpace(stringify(obj["label"]))
		if label == "" {
			label = key
		}
		options = append(options, models.ChoiceOption{Key: key, Label: label})
	}
	return options
}

// choiceLabels indexes options by key; the first definition of a key wins.
func choiceLabels(options []models.ChoiceOption) map[string]string {
	labels := make(map[string]string, len(options))
	for _, opt := range options {
		if _, exists := labels[opt.Key]; !exists {
			labels[opt.Key] = opt.Label
		}
	}
	return labels
}

func stringify(v interface{}) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
