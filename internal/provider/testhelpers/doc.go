// Package testhelpers provides shared testing utilities used across unit and
// acceptance tests.
//
// Intended use:
//   - Unit tests: FakeNessus, an in-memory Nessus API served by httptest,
//     plus fixtures and redaction payloads.
//   - Acceptance tests: Terraform configuration rendered from
//     testdata/templates with a provider block that targets FakeNessus.
//
// Conventions:
//   - Keep dependencies minimal and avoid importing production-only paths.
//   - Ensure deterministic outputs: FakeNessus lists items sorted by id.
//   - Never leak secrets in logs, errors, or golden files; always redact.
//
// This package is for test code and is not part of the provider's public API.
package testhelpers
