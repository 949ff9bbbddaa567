// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

// Package nessus is a thin client for the Nessus REST API.
//
// Highlights:
//   - One request per operation: arguments are validated before any network
//     I/O and no request is ever retried.
//   - Authentication uses the static API key pair carried in the X-ApiKeys
//     header; the Config is copied at construction and never mutated.
//   - Responses are returned verbatim as json.RawMessage. The client does not
//     interpret scan, policy or plugin schemas.
//   - Every failure is a *Error with a Kind (InvalidArgument, TransportError,
//     UnknownError), the HTTP status when one was received, and the
//     underlying cause.
//
// Request (see dispatch.go) maps a resource kind, an action name and loosely
// typed arguments onto the typed operations, for hosts that only hand over
// primitive parameters.
package nessus
