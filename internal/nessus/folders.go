// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListFolders returns GET /folders.
func (c *Client) ListFolders(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/folders", nil, nil)
}

// CreateFolder issues POST /folders. The name must not be blank and is
// limited to 255 characters.
func (c *Client) CreateFolder(ctx context.Context, name string) (json.RawMessage, error) {
	if err := validateFolderName(name); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, "/folders", nil, folderRequest{Name: name})
}

// DeleteFolder issues DELETE /folders/{id}.
func (c *Client) DeleteFolder(ctx context.Context, folderID int64) (json.RawMessage, error) {
	if err := validateID(folderID, "Folder ID"); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/folders/%d", folderID), nil, nil)
}
