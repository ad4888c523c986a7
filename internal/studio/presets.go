package studio

import "ecomlens/internal/models"

// DefaultPresets are the batch styles, in display order.
var DefaultPresets = []models.Preset{
	{
		ID:          "amazon",
		Label:       "Amazon White",
		Description: "Pure white background compliant with e-commerce standards.",
		Prompt:      "Place the product on a pure solid white background (RGB 255, 255, 255). Ensure professional studio lighting, sharp focus, and remove any original background artifacts. The product should look like a standard Amazon listing photo.",
	},
	{
		ID:          "lifestyle",
		Label:       "Cozy Lifestyle",
		Description: "In a warm, home environment.",
		Prompt:      "Place this product in a cozy, modern living room setting. Soft, warm lighting, shallow depth of field (bokeh) background. Make it look like a high-quality lifestyle Instagram photo.",
	},
	{
		ID:          "luxury",
		Label:       "Luxury Studio",
		Description: "Dark, dramatic, and premium.",
		Prompt:      "Place the product on a sleek, reflective black surface. Use dramatic rim lighting and cool tones to convey luxury and elegance. High contrast professional product photography.",
	},
	{
		ID:          "nature",
		Label:       "Nature/Outdoor",
		Description: "Fresh, organic outdoor setting.",
		Prompt:      "Place the product outdoors on a rustic wooden table with sunlight filtering through green leaves. Natural, organic, fresh vibe. Bright and airy.",
	},
	{
		ID:          "minimal",
		Label:       "Pastel Minimal",
		Description: "Clean geometry with soft colors.",
		Prompt:      "Place the product on a geometric podium with a soft pastel colored background (light blue or pink). Minimalist design, soft shadows, 3D render aesthetic.",
	},
}
