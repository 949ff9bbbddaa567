// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListPluginFamilies returns GET /plugins/families.
func (c *Client) ListPluginFamilies(ctx context.Context, p *PaginationOptions) (json.RawMessage, error) {
	q, err := p.values()
	if err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodGet, "/plugins/families", q, nil)
}

// ListPluginsInFamily returns GET /plugins/families/{id}.
func (c *Client) ListPluginsInFamily(ctx context.Context, familyID int64, p *PaginationOptions) (json.RawMessage, error) {
	if err := validateID(familyID, "Family ID"); err != nil {
		return nil, err
	}
	q, err := p.values()
	if err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodGet, fmt.Sprintf("/plugins/families/%d", familyID), q, nil)
}

// GetPluginDetails returns GET /plugins/plugin/{id}.
func (c *Client) GetPluginDetails(ctx context.Context, pluginID int64) (json.RawMessage, error) {
	if err := validateID(pluginID, "Plugin ID"); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodGet, fmt.Sprintf("/plugins/plugin/%d", pluginID), nil, nil)
}
