// Package classify assigns a single topical category to an article using
// keyword scoring over a fixed taxonomy.
package classify

import "strings"

// Category is one taxonomy label with the keywords that select it.
type Category struct {
	Label    string
	Keywords []string
}

// Taxonomy drives classification. Exclusive categories are checked first in
// declaration order; the first one with any keyword match wins outright.
// Scored categories are ranked by match count, declaration order breaking
// ties. Fallback is returned when nothing matches.
//
// A Taxonomy is a plain value passed to whoever needs it; there is no
// package-level default that callers mutate.
type Taxonomy struct {
	Exclusive []Category
	Scored    []Category
	Fallback  string
}

// Default returns the built-in taxonomy: organization categories that
// short-circuit scoring, then topical categories, with "General" as the
// fallback. All keywords are lower case because Classify folds its input.
func Default() Taxonomy {
	return Taxonomy{
		Exclusive: []Category{
			{Label: "OpenAI", Keywords: []string{"openai", "chatgpt", "gpt-4", "gpt-5", "sam altman", "dall-e", "sora"}},
			{Label: "Google", Keywords: []string{"google", "deepmind", "gemini", "alphabet", "waymo"}},
			{Label: "Microsoft", Keywords: []string{"microsoft", "copilot", "azure", "satya nadella", "bing"}},
			{Label: "Meta", Keywords: []string{"meta ai", "facebook", "llama", "zuckerberg", "instagram"}},
			{Label: "Anthropic", Keywords: []string{"anthropic", "claude"}},
			{Label: "Nvidia", Keywords: []string{"nvidia", "jensen huang", "cuda"}},
			{Label: "Apple", Keywords: []string{"apple", "siri", "iphone"}},
			{Label: "Amazon", Keywords: []string{"amazon", "aws", "alexa"}},
		},
		Scored: []Category{
			{Label: "Machine Learning", Keywords: []string{
				"machine learning", "deep learning", "neural network", "large language model",
				"llm", "transformer", "training", "inference", "fine-tuning", "model",
				"generative", "diffusion", "reinforcement learning", "embedding",
			}},
			{Label: "Research", Keywords: []string{
				"research", "paper", "study", "benchmark", "breakthrough", "scientists",
				"university", "lab", "arxiv", "peer-reviewed",
			}},
			{Label: "Business", Keywords: []string{
				"funding", "startup", "raises", "valuation", "acquisition", "ipo",
				"revenue", "investment", "venture", "billion", "million", "partnership",
			}},
			{Label: "Policy", Keywords: []string{
				"regulation", "policy", "law", "congress", "senate", "eu ai act",
				"governance", "ethics", "safety", "ban", "lawsuit", "copyright",
			}},
			{Label: "Robotics", Keywords: []string{
				"robot", "robotics", "autonomous", "self-driving", "drone", "humanoid",
			}},
			{Label: "Hardware", Keywords: []string{
				"chip", "gpu", "semiconductor", "processor", "datacenter", "compute",
			}},
		},
		Fallback: "General",
	}
}

// Labels returns every label the taxonomy can produce, fallback included.
func (t Taxonomy) Labels() []string {
	labels := make([]string, 0, len(t.Exclusive)+len(t.Scored)+1)
	for _, c := range t.Exclusive {
		labels = append(labels, c.Label)
	}
	for _, c := range t.Scored {
		labels = append(labels, c.Label)
	}
	return append(labels, t.Fallback)
}

// Classify returns exactly one label for the given title and body text. The
// result is a pure function of the inputs and the taxonomy.
func (t Taxonomy) Classify(title, body string) string {
	text := strings.ToLower(title + " " + body)

	for _, c := range t.Exclusive {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				return c.Label
			}
		}
	}

	best := t.Fallback
	bestScore := 0
	for _, c := range t.Scored {
		score := 0
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		// Strictly greater only, so the first-declared category keeps ties.
		if score > bestScore {
			bestScore = score
			best = c.Label
		}
	}
	return best
}
