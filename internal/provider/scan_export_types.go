// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/devops-wiz/terraform-provider-nessus/internal/provider/constants"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/tidwall/gjson"
)

// scanExportResourceModel models the Terraform schema/state for nessus_scan_export.
type scanExportResourceModel struct {
	ID            types.String `tfsdk:"id"`
	ScanID        types.Int64  `tfsdk:"scan_id"`
	Format        types.String `tfsdk:"format"`
	HistoryID     types.Int64  `tfsdk:"history_id"`
	Download      types.Bool   `tfsdk:"download"`
	FileID        types.Int64  `tfsdk:"file_id"`
	Status        types.String `tfsdk:"status"`
	Ready         types.Bool   `tfsdk:"ready"`
	Size          types.Int64  `tfsdk:"size"`
	ContentBase64 types.String `tfsdk:"content_base64"`
}

// scanExportPayload carries the export request inputs.
type scanExportPayload struct {
	ScanID    int64
	Format    string
	HistoryID int64
}

// exportID renders the composite "<scan_id>/<file_id>" identifier.
func exportID(scanID, fileID int64) string {
	return strconv.FormatInt(scanID, 10) + "/" + strconv.FormatInt(fileID, 10)
}

// parseExportID splits a "<scan_id>/<file_id>" identifier.
func parseExportID(id string) (int64, int64, error) {
	scan, file, ok := strings.Cut(strings.TrimSpace(id), "/")
	if !ok {
		return 0, 0, fmt.Errorf("expected <scan_id>/<file_id>, got %q", id)
	}
	s, err := parseID(scan)
	if err != nil {
		return 0, 0, err
	}
	f, err := parseID(file)
	if err != nil {
		return 0, 0, err
	}
	return s, f, nil
}

// mapExportStatusToModel maps an export status document; ids are already in state.
func mapExportStatusToModel(_ context.Context, raw json.RawMessage, st *scanExportResourceModel) diag.Diagnostics {
	var diags diag.Diagnostics
	status := gjson.GetBytes(raw, "status")
	if !status.Exists() {
		diags.AddError("Unexpected export status document", "The export status response did not contain 'status'.")
		return diags
	}
	st.ID = types.StringValue(exportID(st.ScanID.ValueInt64(), st.FileID.ValueInt64()))
	st.Status = types.StringValue(status.String())
	st.Ready = boolValue(status.String() == constants.ExportStatusReady)
	if st.Download.IsNull() || st.Download.IsUnknown() {
		st.Download = boolValue(false)
	}
	if st.ContentBase64.IsUnknown() {
		st.ContentBase64 = types.StringNull()
	}
	if st.Size.IsUnknown() {
		st.Size = types.Int64Null()
	}
	return diags
}
