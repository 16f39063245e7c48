// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Identity management for nitro-tui.
//
// Command: auth [show|login|logout]
//
// Examples:
//   nitro-tui auth show
//   nitro-tui auth login --email user@example.com
//   nitro-tui auth login --email admin@example.com --admin
//   nitro-tui auth logout
package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/nitro-tui/internal/auth"
)

// HandleAuth manages the locally-stored identity profile.
func HandleAuth(rt *Runtime, args Args) error {
	if rt.AuthStore == nil {
		return fmt.Errorf("identity store unavailable")
	}

	switch args.parser.Positional(1) {
	case "", "show":
		return authShow(rt)
	case "login":
		return authLogin(rt, args)
	case "logout":
		return authLogout(rt)
	default:
		return fmt.Errorf("unknown auth subcommand: %s", args.parser.Positional(1))
	}
}

func authShow(rt *Runtime) error {
	ident, err := rt.AuthStore.Load()
	if errors.Is(err, auth.ErrNoProfile) {
		fmt.Println("no identity stored, running as guest")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("email:    %s\n", ident.Email)
	fmt.Printf("admin:    %t\n", ident.IsAdmin)
	fmt.Printf("messages: %d\n", ident.MessageCount)
	if !ident.SubscriptionExpiry.IsZero() {
		status := "expired"
		if ident.HasActiveSubscription(time.Now()) {
			status = "active"
		}
		fmt.Printf("subscription: %s (until %s)\n", status, ident.SubscriptionExpiry.Format("2006-01-02"))
	}
	return nil
}

func authLogin(rt *Runtime, args Args) error {
	email := strings.TrimSpace(args.parser.Flag("email"))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("a valid --email is required")
	}

	ident := auth.Identity{
		Email:   email,
		IsAdmin: args.parser.BoolFlag("admin"),
	}
	if until := args.parser.Flag("subscribed-until"); until != "" {
		expiry, err := time.Parse("2006-01-02", until)
		if err != nil {
			return fmt.Errorf("invalid --subscribed-until date: %w", err)
		}
		ident.SubscriptionExpiry = expiry
	}

	if err := rt.AuthStore.Save(ident); err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}
	fmt.Printf("logged in as %s\n", ident.DisplayName())
	return nil
}

func authLogout(rt *Runtime) error {
	if err := rt.AuthStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	fmt.Println("logged out, future sessions run as guest")
	return nil
}
