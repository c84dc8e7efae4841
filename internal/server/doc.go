// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server wires and runs the application's HTTP server.
//
// It owns the server lifecycle: startup, shutdown when the run context is
// cancelled, and draining in-flight requests within a grace period.
package server
