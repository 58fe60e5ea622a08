package prompts

import (
	"github.com/tmc/langchaingo/prompts"
)

// StepPromptData is interpolated into the per-step user prompt.
type StepPromptData struct {
	Objective  string
	CurrentURL string
}

// GenerateStepPrompt renders the user prompt sent alongside each screenshot.
// The template uses Go template syntax with "objective" and "current_url"
// variables.
func GenerateStepPrompt(baseTemplate string, data StepPromptData) (string, error) {
	tmpl := prompts.PromptTemplate{
		Template:       baseTemplate,
		InputVariables: []string{"objective", "current_url"},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	}

	return tmpl.Format(map[string]any{
		"objective":   data.Objective,
		"current_url": data.CurrentURL,
	})
}
