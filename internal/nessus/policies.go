// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const fieldPolicyID = "Policy ID"

// ListPolicies returns GET /policies.
func (c *Client) ListPolicies(ctx context.Context, p *PaginationOptions) (json.RawMessage, error) {
	q, err := p.values()
	if err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodGet, "/policies", q, nil)
}

// GetPolicyDetails returns GET /policies/{id}.
func (c *Client) GetPolicyDetails(ctx context.Context, policyID int64) (json.RawMessage, error) {
	if err := validateID(policyID, fieldPolicyID); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodGet, fmt.Sprintf("/policies/%d", policyID), nil, nil)
}

// CreatePolicy issues POST /policies.
func (c *Client) CreatePolicy(ctx context.Context, p PolicyPayload) (json.RawMessage, error) {
	if err := validatePolicyPayload(p); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, "/policies", nil, p)
}

// UpdatePolicy issues PUT /policies/{id}.
func (c *Client) UpdatePolicy(ctx context.Context, policyID int64, p PolicyPayload) (json.RawMessage, error) {
	if err := validateID(policyID, fieldPolicyID); err != nil {
		return nil, err
	}
	if err := validatePolicyPayload(p); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPut, fmt.Sprintf("/policies/%d", policyID), nil, p)
}

// DeletePolicy issues DELETE /policies/{id}.
func (c *Client) DeletePolicy(ctx context.Context, policyID int64) (json.RawMessage, error) {
	if err := validateID(policyID, fieldPolicyID); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/policies/%d", policyID), nil, nil)
}

// DeleteManyPolicies issues a single DELETE /policies carrying {"ids": [...]}.
func (c *Client) DeleteManyPolicies(ctx context.Context, policyIDs []int64) (json.RawMessage, error) {
	if err := validateIDs(policyIDs, "Policy IDs"); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodDelete, "/policies", nil, bulkDeleteRequest{IDs: policyIDs})
}

// CopyPolicy issues POST /policies/{id}/copy.
func (c *Client) CopyPolicy(ctx context.Context, policyID int64) (json.RawMessage, error) {
	if err := validateID(policyID, fieldPolicyID); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/policies/%d/copy", policyID), nil, nil)
}
