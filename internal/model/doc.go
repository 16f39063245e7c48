// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
//
// This package defines the core domain types used throughout the application
// for representing per-model chat histories, turns, languages, and the
// selectable model registry.
//
// # Key Types
//
//   - Conversation: Ordered turn history for one model identifier
//   - Turn: Single message with role, content, and pending state
//   - ModelInfo: Information about a selectable model (ID, provider, tier)
//   - Role: Turn role enumeration (user, assistant, system)
//   - Language: Response language enumeration with RTL awareness
//
// # Usage
//
// Create a conversation and append turns:
//
//	conv := model.NewConversation("gpt-5")
//	idx := conv.Append(model.NewUserTurn("Hello!"))
//	conv.SetContent(idx, "Hello there!")
//
// Look up model information:
//
//	info, ok := model.GetModelInfo("deepseek")
//	if ok {
//	    fmt.Println(info.Name)
//	}
package model
