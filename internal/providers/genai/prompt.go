package genai

import "strings"

// BuildFittingPrompt is the instruction sent ahead of the three images, which
// always arrive in model, top, bottom order.
func BuildFittingPrompt() string {
	lines := []string{
		"You are a virtual fitting room.",
		"The first image shows the person. The second image shows a top garment. The third image shows a bottom garment.",
		"Create one photorealistic full-body image of the same person wearing the top and the bottom.",
		"Keep the person's face, hair, skin tone, body shape and pose unchanged.",
		"Reproduce the garments faithfully: color, pattern, fabric texture, logos and fit.",
		"Use a clean, neutral studio background and soft, even lighting.",
		"Return only the image.",
	}
	return strings.Join(lines, "\n")
}
