// Package prompts loads named LLM prompt templates from a YAML resource and
// renders them with strict placeholder substitution.
package prompts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

var (
	ErrPromptsNotFound   = errors.New("prompts file not found")
	ErrInvalidPrompts    = errors.New("invalid prompts file")
	ErrPromptNotFound    = errors.New("prompt not found")
	ErrMissingVariable   = errors.New("missing required variable")
	ErrMalformedTemplate = errors.New("malformed prompt template")
)

// Template is a stored prompt: either a single text or a system/user pair.
type Template struct {
	System string
	User   string
	chat   bool
}

func (t Template) IsChat() bool {
	return t.chat
}

// Prompt is a rendered template. System is empty for single-text templates.
type Prompt struct {
	System string
	User   string
}

func (p Prompt) IsChat() bool {
	return p.System != ""
}

// Store holds the parsed templates. It is immutable after Load and safe
// for concurrent use.
type Store struct {
	source    string
	templates map[string]Template
}

// Load reads and parses the prompts file at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPromptsNotFound, path)
		}
		return nil, fmt.Errorf("failed to read prompts file %s: %w", path, err)
	}

	return Parse(data, path)
}

// Parse builds a Store from YAML content. source is used in error messages.
func Parse(data []byte, source string) (*Store, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidPrompts, source, err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w %s: no prompts loaded", ErrInvalidPrompts, source)
	}

	templates := make(map[string]Template, len(raw))
	for name, node := range raw {
		tmpl, err := decodeTemplate(&node)
		if err != nil {
			return nil, fmt.Errorf("%w %s: prompt %q: %v", ErrInvalidPrompts, source, name, err)
		}
		templates[name] = tmpl
	}

	return &Store{source: source, templates: templates}, nil
}

func decodeTemplate(node *yaml.Node) (Template, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!str" {
			return Template{}, fmt.Errorf("expected string or mapping, got %s", node.Tag)
		}
		return Template{User: node.Value}, nil
	case yaml.MappingNode:
		var parts map[string]string
		if err := node.Decode(&parts); err != nil {
			return Template{}, err
		}

		var tmpl Template
		for key, value := range parts {
			switch key {
			case "system", "system_prompt":
				tmpl.System = value
			case "user", "user_prompt":
				tmpl.User = value
			default:
				return Template{}, fmt.Errorf("unexpected key %q", key)
			}
		}
		if strings.TrimSpace(tmpl.User) == "" {
			return Template{}, errors.New("user prompt is required")
		}
		tmpl.chat = true
		return tmpl, nil
	default:
		return Template{}, errors.New("expected string or mapping")
	}
}

// Names returns the available template names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) Source() string {
	return s.source
}

// Get returns the raw template stored under name.
func (s *Store) Get(name string) (Template, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q. Available prompts: %s", ErrPromptNotFound, name, strings.Join(s.Names(), ", "))
	}
	return tmpl, nil
}

// Render substitutes vars into the named template. Every placeholder must
// have a value in vars.
func (s *Store) Render(name string, vars map[string]string) (Prompt, error) {
	tmpl, err := s.Get(name)
	if err != nil {
		return Prompt{}, err
	}

	var prompt Prompt
	if tmpl.IsChat() {
		if prompt.System, err = renderPart(name, "system", tmpl.System, vars); err != nil {
			return Prompt{}, err
		}
		if prompt.User, err = renderPart(name, "user", tmpl.User, vars); err != nil {
			return Prompt{}, err
		}
		return prompt, nil
	}

	if prompt.User, err = renderPart(name, "", tmpl.User, vars); err != nil {
		return Prompt{}, err
	}
	return prompt, nil
}

func renderPart(name, part, text string, vars map[string]string) (string, error) {
	label := name
	if part != "" {
		label = name + "." + part
	}

	out, err := substitute(text, vars)
	if err != nil {
		var missing *missingKeyError
		if errors.As(err, &missing) {
			return "", fmt.Errorf("%w %q in prompt %q", ErrMissingVariable, missing.key, label)
		}
		return "", fmt.Errorf("prompt %q: %w", label, err)
	}
	return out, nil
}
