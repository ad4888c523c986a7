package models

import "time"

const CategoryCustom = "custom"

// Asset is one generated image. Assets live only in memory.
type Asset struct {
	ID        string    `json:"id" example:"V1StGXR8_Z5jdHi6B-myT"`
	DataURI   string    `json:"url"`
	Prompt    string    `json:"prompt" example:"Amazon White"`
	Category  string    `json:"category" example:"amazon"`
	CreatedAt time.Time `json:"timestamp"`
}

type Preset struct {
	ID          string `json:"id" example:"amazon"`
	Label       string `json:"label" example:"Amazon White"`
	Description string `json:"description"`
	Prompt      string `json:"-"`
}
