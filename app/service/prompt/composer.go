package prompt

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/samber/do"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

//go:embed few_shot.txt
var fewShotExamples string

// Composer builds model-facing prompts and scrubs raw model output. The
// templates are immutable after init, safe for concurrent turns.
type Composer struct {
	systemPrompt string
	fewShot      string
}

func New(_ *do.Injector) (*Composer, error) {
	return &Composer{
		systemPrompt: strings.TrimSpace(systemPromptTemplate),
		fewShot:      strings.TrimSpace(fewShotExamples),
	}, nil
}

// Build emits the full generative prompt: system instructions, the few-shot
// exchanges and the user turn, ending on an assistant marker for the model
// to continue.
func (c *Composer) Build(utterance string) string {
	return c.systemPrompt + "\n\n" + c.fewShot + fmt.Sprintf("\nUser: %s\nAssistant:", utterance)
}

// BuildWithSpecialists emits the compact specialist-augmented variant.
func (c *Composer) BuildWithSpecialists(utterance, specialistInfo string) string {
	return fmt.Sprintf("User: %s\nExperts Info: %s\nAssistant:", utterance, specialistInfo)
}
