// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Package provider implements the Terraform Provider for Nessus.
//
// Highlights:
//   - Auth: Nessus API key pair sent as the X-ApiKeys header; keys may come from NESSUS_ACCESS_KEY and NESSUS_SECRET_KEY.
//   - Timeouts: one HTTP timeout per request plus per-operation timeouts. Requests are never retried.
//   - Resources: folders, scans, policies, scan exports, and a generic operation resource for any dispatcher action.
//   - Deterministic outputs: list data sources sort by id and expose compact result_json.
//
// Further reading (canonical docs):
//   - Configuration & env vars: docs/index.md#configuration
//   - Troubleshooting: docs/index.md#troubleshooting
//   - Examples: docs/ and examples/
package provider
