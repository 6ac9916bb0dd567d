package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/IronRon/Adaptive-Landing-AI/business/recommend"
)

const promptTemplate = `You are an AI assistant that personalises landing page layouts based on user behaviour.

You must return ONLY valid JSON. Do NOT return explanations or text outside JSON.

### Input Data
Default Layout: %s
Global Scores: %s
User Scores: %s
Visitor Metadata: %s
%s
### Task
Suggest:
1. A reordered list of sections. Use only section keys from the default layout.
2. Optional customizations for specific sections.

### Output Format

{
"layout": ["header", "services", "pricing"],
"customizations": {
    "header": {"text": "string", "style": "string"},
    "services": {"highlight": true}
}
}
`

// maxAssetHTML caps each section's markup in the prompt.
const maxAssetHTML = 2000

// maxAssetCSS caps the combined page CSS in the prompt.
const maxAssetCSS = 4000

// BuildPrompt renders the prompt text. Assets are included only when asked.
func BuildPrompt(p recommend.PromptContext, includeAssets bool) (string, error) {
	layout, err := json.Marshal(p.DefaultLayout)
	if err != nil {
		return "", fmt.Errorf("failed to marshal default layout: %w", err)
	}
	global, err := json.Marshal(p.GlobalScores)
	if err != nil {
		return "", fmt.Errorf("failed to marshal global scores: %w", err)
	}
	user, err := json.Marshal(p.UserScores)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user scores: %w", err)
	}
	meta, err := json.Marshal(p.VisitorMeta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal visitor meta: %w", err)
	}

	var assets string
	if includeAssets {
		assets = renderAssets(p.Assets, p.CombinedCSS)
	}

	return fmt.Sprintf(promptTemplate, layout, global, user, meta, assets), nil
}

func renderAssets(assets map[string]recommend.SectionAsset, css string) string {
	keys := make([]string, 0, len(assets))
	for k := range assets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	if len(keys) > 0 {
		b.WriteString("\n### Section Markup\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "[%s]\n%s\n", k, clip(assets[k].HTML, maxAssetHTML))
		}
	}
	if css = strings.TrimSpace(css); css != "" {
		fmt.Fprintf(&b, "\n### Page CSS\n%s\n", clip(css, maxAssetCSS))
	}
	return b.String()
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
