package predict

import (
	"fmt"
	"strings"
)

// defaultPrompt instructs the model to answer with the option identifier or
// exact text and nothing else, so the matcher can decode it.
const defaultPrompt = `Question: {{question}}

Options:
{{options}}

Instructions:
1. Analyze the question and options carefully.
2. Select the most accurate answer.
3. Respond ONLY with the letter or number of the correct option, or the exact text of the correct option.
4. If multiple answers are correct, list all correct options separated by commas.
5. Do not explain your reasoning, just provide the answer.`

// renderPrompt fills the template with the question and a numbered option
// list. An empty template selects the default.
func renderPrompt(template, question string, options []string) string {
	if template == "" {
		template = defaultPrompt
	}
	numbered := make([]string, len(options))
	for i, o := range options {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, o)
	}
	out := strings.ReplaceAll(template, "{{question}}", question)
	return strings.ReplaceAll(out, "{{options}}", strings.Join(numbered, "\n"))
}
