// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const fieldScanID = "Scan ID"

// ListScans returns GET /scans.
func (c *Client) ListScans(ctx context.Context, p *PaginationOptions) (json.RawMessage, error) {
	q, err := p.values()
	if err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodGet, "/scans", q, nil)
}

// GetScanDetails returns GET /scans/{id}.
func (c *Client) GetScanDetails(ctx context.Context, scanID int64) (json.RawMessage, error) {
	if err := validateID(scanID, fieldScanID); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodGet, fmt.Sprintf("/scans/%d", scanID), nil, nil)
}

// CreateScan issues POST /scans.
func (c *Client) CreateScan(ctx context.Context, p ScanCreatePayload) (json.RawMessage, error) {
	if err := validateScanPayload(p); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, "/scans", nil, p)
}

// LaunchScan issues POST /scans/{id}/launch. altTargets, when non-empty,
// override the scan targets for this run only.
func (c *Client) LaunchScan(ctx context.Context, scanID int64, altTargets []string) (json.RawMessage, error) {
	if err := validateID(scanID, fieldScanID); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/scans/%d/launch", scanID), nil, launchRequest{AltTargets: altTargets})
}

// StopScan issues POST /scans/{id}/stop.
func (c *Client) StopScan(ctx context.Context, scanID int64) (json.RawMessage, error) {
	return c.scanAction(ctx, scanID, "stop")
}

// PauseScan issues POST /scans/{id}/pause.
func (c *Client) PauseScan(ctx context.Context, scanID int64) (json.RawMessage, error) {
	return c.scanAction(ctx, scanID, "pause")
}

// ResumeScan issues POST /scans/{id}/resume.
func (c *Client) ResumeScan(ctx context.Context, scanID int64) (json.RawMessage, error) {
	return c.scanAction(ctx, scanID, "resume")
}

func (c *Client) scanAction(ctx context.Context, scanID int64, action string) (json.RawMessage, error) {
	if err := validateID(scanID, fieldScanID); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/scans/%d/%s", scanID, action), nil, nil)
}

// DeleteScan issues DELETE /scans/{id}.
func (c *Client) DeleteScan(ctx context.Context, scanID int64) (json.RawMessage, error) {
	if err := validateID(scanID, fieldScanID); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/scans/%d", scanID), nil, nil)
}

// DeleteManyScans issues a single DELETE /scans carrying {"ids": [...]}.
func (c *Client) DeleteManyScans(ctx context.Context, scanIDs []int64) (json.RawMessage, error) {
	if err := validateIDs(scanIDs, "Scan IDs"); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodDelete, "/scans", nil, bulkDeleteRequest{IDs: scanIDs})
}

// ExportScan requests an export with POST /scans/{id}/export. historyID 0
// exports the latest run. The export is asynchronous: poll
// GetScanExportStatus and then DownloadScanExport.
func (c *Client) ExportScan(ctx context.Context, scanID int64, format string, historyID int64) (json.RawMessage, error) {
	if err := validateID(scanID, fieldScanID); err != nil {
		return nil, err
	}
	f, err := normalizeExportFormat(format)
	if err != nil {
		return nil, err
	}
	if historyID < 0 {
		return nil, invalidArgument("History ID must be a positive integer")
	}
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/scans/%d/export", scanID), nil, exportRequest{Format: f, HistoryID: historyID})
}

// GetScanExportStatus returns GET /scans/{id}/export/{file}/status.
func (c *Client) GetScanExportStatus(ctx context.Context, scanID, fileID int64) (json.RawMessage, error) {
	if err := validateExportRef(scanID, fileID); err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodGet, fmt.Sprintf("/scans/%d/export/%d/status", scanID, fileID), nil, nil)
}

// DownloadScanExport returns the raw file from GET /scans/{id}/export/{file}/download.
func (c *Client) DownloadScanExport(ctx context.Context, scanID, fileID int64) ([]byte, error) {
	if err := validateExportRef(scanID, fileID); err != nil {
		return nil, err
	}
	return c.send(ctx, http.MethodGet, fmt.Sprintf("/scans/%d/export/%d/download", scanID, fileID), nil, nil)
}

func validateExportRef(scanID, fileID int64) error {
	if err := validateID(scanID, fieldScanID); err != nil {
		return err
	}
	return validateID(fileID, "File ID")
}

// CopyScan issues POST /scans/{id}/copy. folderID 0 and an empty name are
// treated as not provided and left out of the body.
func (c *Client) CopyScan(ctx context.Context, scanID, folderID int64, name string) (json.RawMessage, error) {
	if err := validateID(scanID, fieldScanID); err != nil {
		return nil, err
	}
	if folderID < 0 {
		return nil, invalidArgument("Folder ID must be a positive integer")
	}
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/scans/%d/copy", scanID), nil, copyScanRequest{FolderID: folderID, Name: name})
}
