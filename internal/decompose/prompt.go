package decompose

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/wingbeat/wingbeat/pkg/models"
)

// FragmentPrompt cuts a prompt into fragments of 1-3 whitespace-delimited
// words. Run lengths come from rng; fragment order preserves word order,
// which is the natural reintegration order for prompts.
func FragmentPrompt(prompt string, rng *rand.Rand) []models.Fragment {
	words := strings.Fields(prompt)
	var fragments []models.Fragment

	for i := 0; i < len(words); {
		size := rng.Intn(3) + 1
		end := i + size
		if end > len(words) {
			end = len(words)
		}

		fragments = append(fragments, models.Fragment{
			ID:      uuid.New(),
			Content: strings.Join(words[i:end], " "),
		})
		i = end
	}

	return fragments
}
