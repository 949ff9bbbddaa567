// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"context"
	"encoding/json"
	"net/http"
)

// GetSessionDetails returns GET /session.
func (c *Client) GetSessionDetails(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/session", nil, nil)
}

// EditSession issues PUT /session.
func (c *Client) EditSession(ctx context.Context, p SessionPayload) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPut, "/session", nil, p)
}

// ListScanTemplates returns GET /editor/scan/templates.
func (c *Client) ListScanTemplates(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/editor/scan/templates", nil, nil)
}

// ListPolicyTemplates returns GET /editor/policy/templates.
func (c *Client) ListPolicyTemplates(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/editor/policy/templates", nil, nil)
}
