// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
)

// ServiceClient is embedded by resources and data sources; Configure fills it
// from the provider data.
type ServiceClient struct {
	client           *nessus.Client
	providerTimeouts opTimeouts
}
