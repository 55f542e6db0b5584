// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main is the voterauth terminal client.

It walks a voter through three steps against a remote voter authentication
service: entering credentials, verifying a one-time code sent to their phone,
and viewing (and casting) their vote status.

# Running

	go run . -api http://localhost:5000

A local service for development lives in cmd/devserver.

# Configuration

  - VOTERAUTH_API_URL (-api): service base URL (default: http://localhost:5000)
  - VOTERAUTH_AUTH_MODE (-mode): initial credential form, simple or enhanced
  - VOTERAUTH_TIMEOUT (-timeout): bound on each remote call (default: 15s)
  - VOTERAUTH_LOG_FILE (-log): write structured logs to this file

A .env file in the working directory is loaded first. CLI flags win over the
environment.

# Architecture

  - flow: step state machine and controller (the only owner of flow state)
  - credentials: simple and enhanced credential collectors
  - apiclient: HTTP+JSON client for the remote service
  - tui: bubbletea views for each step
  - models: wire types shared by client and dev server
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
