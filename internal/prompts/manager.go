package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// Prompt is a rendered system instruction plus user prompt.
type Prompt struct {
	System string
	User   string
}

// PromptProvider is what handlers and the generator need from the manager.
type PromptProvider interface {
	BuildPrompt(mode, variant string, data any) (*Prompt, error)
	GetTemplates() []string
}

type compiled struct {
	system   string
	variants map[string]*template.Template
}

type PromptManager struct {
	prompts map[string]*compiled // mode -> compiled variants
}

// loaded prompt template
type PromptTemplate struct {
	System     string            `yaml:"system"`
	BasePrompt string            `yaml:"base_prompt"`
	Variants   map[string]string `yaml:"variants"`
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]*compiled),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// BuildPrompt renders the variant of mode with data.
func (pm *PromptManager) BuildPrompt(mode, variant string, data any) (*Prompt, error) {
	modePrompts, exists := pm.prompts[mode]
	if !exists {
		return nil, fmt.Errorf("template not found for mode: %s", mode)
	}

	tmpl, exists := modePrompts.variants[variant]
	if !exists {
		return nil, fmt.Errorf("variant '%s' not found for mode '%s'", variant, mode)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s/%s: %w", mode, variant, err)
	}

	return &Prompt{System: modePrompts.system, User: buf.String()}, nil
}

// GetTemplates lists the loaded modes.
func (pm *PromptManager) GetTemplates() []string {
	names := make([]string, 0, len(pm.prompts))
	for name := range pm.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		c := &compiled{
			system:   strings.TrimSpace(promptTemplate.System),
			variants: make(map[string]*template.Template, len(promptTemplate.Variants)),
		}

		for variant, body := range promptTemplate.Variants {
			var full strings.Builder
			if promptTemplate.BasePrompt != "" {
				full.WriteString(promptTemplate.BasePrompt)
				full.WriteString("\n")
			}
			full.WriteString(body)

			tmpl, err := template.New(name + "/" + variant).Funcs(funcs).Option("missingkey=error").Parse(full.String())
			if err != nil {
				return fmt.Errorf("failed to compile template %s/%s: %w", name, variant, err)
			}
			c.variants[variant] = tmpl
		}
		pm.prompts[name] = c
	}

	return nil
}
