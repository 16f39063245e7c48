// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
package model

import (
	"strings"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo contains detailed information about a selectable model.
// This is used for model selection and display in the UI.
type ModelInfo struct {
	// ID is the model identifier sent to the backend
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Provider identifies who serves the model upstream
	Provider string `json:"provider"`

	// Tier categorizes the model's capability level
	Tier string `json:"tier"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// DefaultModel is the model identifier used when none is configured.
const DefaultModel = "gpt-5"

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Models is the registry of selectable models. Each entry owns an
// independent conversation in the history store.
var Models = map[string]ModelInfo{
	"gpt-5": {
		ID:          "gpt-5",
		Name:        "GPT-5",
		Provider:    "OpenAI",
		Tier:        "Powerful",
		Description: "Flagship general-purpose model",
	},
	"deepseek": {
		ID:          "deepseek",
		Name:        "DeepSeek",
		Provider:    "DeepSeek",
		Tier:        "Balanced",
		Description: "Strong reasoning and code understanding",
	},
	"llama": {
		ID:          "llama",
		Name:        "Llama",
		Provider:    "Meta",
		Tier:        "Fast",
		Description: "Versatile open-weights model",
	},
	"mistral": {
		ID:          "mistral",
		Name:        "Mistral",
		Provider:    "Mistral",
		Tier:        "Fast",
		Description: "Fast and efficient general purpose",
	},
	"qwen": {
		ID:          "qwen",
		Name:        "Qwen",
		Provider:    "Alibaba",
		Tier:        "Balanced",
		Description: "Multilingual with strong code generation",
	},
}

// ModelOrder fixes the display order of the registry for pickers and
// status lines (map iteration order is not stable).
var ModelOrder = []string{"gpt-5", "deepseek", "llama", "mistral", "qwen"}

// =============================================================================
// MODEL LOOKUP FUNCTIONS
// =============================================================================

// GetModelInfo looks up a model by identifier or display name.
// Returns the ModelInfo and true if found, otherwise empty ModelInfo and false.
func GetModelInfo(nameOrID string) (ModelInfo, bool) {
	// Try direct lookup by identifier
	if info, ok := Models[nameOrID]; ok {
		return info, true
	}

	// Try partial match on name
	lowerName := strings.ToLower(nameOrID)
	for _, info := range Models {
		if strings.Contains(strings.ToLower(info.Name), lowerName) {
			return info, true
		}
	}

	return ModelInfo{}, false
}

// IsKnownModel reports whether id is in the registry.
func IsKnownModel(id string) bool {
	_, ok := Models[id]
	return ok
}

// ModelIDs returns the model identifiers in display order.
func ModelIDs() []string {
	ids := make([]string, len(ModelOrder))
	copy(ids, ModelOrder)
	return ids
}

// SeedBanner returns the synthetic assistant banner that seeds a freshly
// activated conversation.
func SeedBanner(modelID string) string {
	name := modelID
	if info, ok := Models[modelID]; ok {
		name = info.Name
	}
	return "SYSTEM: Switched to " + strings.ToUpper(name) + ". Ready."
}
