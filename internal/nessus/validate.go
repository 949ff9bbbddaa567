// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"strings"
	"unicode/utf8"
)

// ExportFormats lists the accepted export formats.
var ExportFormats = []string{"nessus", "pdf", "html", "csv", "db"}

const maxFolderNameLength = 255

func validateID(id int64, field string) error {
	if id <= 0 {
		return invalidArgument("%s must be a positive integer", field)
	}
	return nil
}

func validateIDs(ids []int64, field string) error {
	if len(ids) == 0 {
		return invalidArgument("%s array cannot be empty", field)
	}
	for _, id := range ids {
		if id <= 0 {
			return invalidArgument("%s must contain only positive integers", field)
		}
	}
	return nil
}

func validateScanPayload(p ScanCreatePayload) error {
	if strings.TrimSpace(p.TemplateUUID) == "" {
		return invalidArgument("Template UUID is required for scan creation")
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalidArgument("Scan name is required")
	}
	if strings.TrimSpace(p.Targets) == "" {
		return invalidArgument("Target list is required")
	}
	if p.FolderID < 0 {
		return invalidArgument("Folder ID must be a positive integer")
	}
	return nil
}

func validatePolicyPayload(p PolicyPayload) error {
	if strings.TrimSpace(p.TemplateUUID) == "" && strings.TrimSpace(p.name()) == "" {
		return invalidArgument("Policy UUID or name is required")
	}
	return nil
}

func validateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalidArgument("Folder name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxFolderNameLength {
		return invalidArgument("Folder name cannot exceed %d characters", maxFolderNameLength)
	}
	return nil
}

// normalizeExportFormat validates format case-insensitively and returns it lower-cased.
func normalizeExportFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, valid := range ExportFormats {
		if f == valid {
			return f, nil
		}
	}
	return "", invalidArgument("Invalid export format. Valid formats: %s", strings.Join(ExportFormats, ", "))
}
