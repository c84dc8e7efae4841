// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "errors"

var (
	// ErrUsage is returned when the command line cannot be parsed.
	ErrUsage = errors.New("usage error")

	// ErrUnknownCommand is returned for an unsupported subcommand.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoToken is returned by commands that need a bearer token when none
	// is configured.
	ErrNoToken = errors.New("no token configured, run login and set ADAPTER_TOKEN")
)
