// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"encoding/json"
	"maps"
)

// ScanCreatePayload describes a new scan.
type ScanCreatePayload struct {
	// TemplateUUID selects the scan template (or user policy UUID).
	TemplateUUID string
	Name         string
	// Targets is the comma separated list of hosts, ranges or CIDRs.
	Targets string
	Enabled bool
	// FolderID places the scan in a folder; 0 leaves the server default.
	FolderID    int64
	Description string
}

type scanSettings struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TextTargets string `json:"text_targets"`
	Enabled     bool   `json:"enabled"`
	FolderID    int64  `json:"folder_id,omitempty"`
}

// MarshalJSON renders the body expected by POST /scans:
// {"uuid": ..., "settings": {"name", "text_targets", "enabled"}}.
func (p ScanCreatePayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UUID     string       `json:"uuid"`
		Settings scanSettings `json:"settings"`
	}{
		UUID: p.TemplateUUID,
		Settings: scanSettings{
			Name:        p.Name,
			Description: p.Description,
			TextTargets: p.Targets,
			Enabled:     p.Enabled,
			FolderID:    p.FolderID,
		},
	})
}

// PolicyPayload describes a policy for create and update.
// Either TemplateUUID or Name must be set.
type PolicyPayload struct {
	TemplateUUID string
	Name         string
	Description  string
	// Settings carries additional editor settings; Name and Description win over
	// the same keys here.
	Settings map[string]any
}

// MarshalJSON renders {"uuid"?: ..., "settings": {...}}.
func (p PolicyPayload) MarshalJSON() ([]byte, error) {
	settings := make(map[string]any, len(p.Settings)+2)
	maps.Copy(settings, p.Settings)
	if p.Name != "" {
		settings["name"] = p.Name
	}
	if p.Description != "" {
		settings["description"] = p.Description
	}
	return json.Marshal(struct {
		UUID     string         `json:"uuid,omitempty"`
		Settings map[string]any `json:"settings"`
	}{UUID: p.TemplateUUID, Settings: settings})
}

// name returns the effective policy name, looking at Settings when Name is empty.
func (p PolicyPayload) name() string {
	if p.Name != "" {
		return p.Name
	}
	if s, ok := p.Settings["name"].(string); ok {
		return s
	}
	return ""
}

// SessionPayload edits the current user's session details.
type SessionPayload struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type launchRequest struct {
	AltTargets []string `json:"alt_targets,omitempty"`
}

type exportRequest struct {
	Format    string `json:"format"`
	HistoryID int64  `json:"history_id,omitempty"`
}

type copyScanRequest struct {
	FolderID int64  `json:"folder_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

type folderRequest struct {
	Name string `json:"name"`
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}
