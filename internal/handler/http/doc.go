// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport layer of the account service.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Authentication, per-user authorization, request tracing, access
// logging and login rate limiting are handled in this package before
// requests are delegated to the lifecycle service.
package http
