// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

// This file intentionally instantiates generic runners and helpers with all
// currently supported resource/data-source types to ensure the constrained
// generics remain compatible across refactors. It does not execute any logic;
// it only needs to compile.

import (
	"encoding/json"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/tidwall/gjson"
)

// CRUDRunner instantiations (state, payload, api)
var (
	_ CRUDRunner[folderResourceModel, folderPayload, json.RawMessage]
	_ CRUDRunner[scanResourceModel, nessus.ScanCreatePayload, json.RawMessage]
	_ CRUDRunner[policyResourceModel, nessus.PolicyPayload, json.RawMessage]
	_ CRUDRunner[scanExportResourceModel, scanExportPayload, json.RawMessage]
)

// ListHooks instantiations (api list item, out model)
var (
	_ ListHooks[gjson.Result, scanListItemModel]
	_ ListHooks[gjson.Result, policyListItemModel]
	_ ListHooks[gjson.Result, folderListItemModel]
	_ ListHooks[gjson.Result, pluginFamilyItemModel]
	_ ListHooks[gjson.Result, pluginItemModel]
	_ ListHooks[gjson.Result, templateItemModel]
)
