// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the admin command-line application.
//
// Each subcommand maps to one [adapter.AccountAdapter] call. Results are
// written as JSON to the configured output; logs go to stderr. Passwords
// are read through a [PasswordReader], never from the command line.
package client
