// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/devops-wiz/terraform-provider-nessus/internal/provider/testhelpers"
	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/knownvalue"
	"github.com/hashicorp/terraform-plugin-testing/plancheck"
	"github.com/hashicorp/terraform-plugin-testing/statecheck"
	"github.com/hashicorp/terraform-plugin-testing/tfjsonpath"
)

func operationConfig(f *testhelpers.FakeNessus, kind, action, args string, continueOnFail bool) string {
	return fmt.Sprintf(`%s
resource "nessus_operation" "test" {
  kind             = %q
  action           = %q
  arguments        = %s
  continue_on_fail = %t
}
`, f.ProviderConfig(), kind, action, args, continueOnFail)
}

func TestAccOperationResource_launchAndStop(t *testing.T) {
	t.Parallel()

	f := testhelpers.NewFakeNessus(t)
	scanID := f.SeedScan("tf-acc-operation", "10.0.0.1")

	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t, f) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: operationConfig(f, "scan", "launch", fmt.Sprintf(`{ scanId = "%d" }`, scanID), false),
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(operationResourceName, tfjsonpath.New("id"), knownvalue.StringRegexp(regexp.MustCompile(`^scan/launch/\d+$`))),
					statecheck.ExpectKnownValue(operationResourceName, tfjsonpath.New("result_json"), knownvalue.StringExact(fmt.Sprintf(`{"scan_uuid":"launch-%d-1"}`, scanID))),
					statecheck.ExpectKnownValue(operationResourceName, tfjsonpath.New("error"), knownvalue.Null()),
				},
			},
			{
				// Argument keys match ignoring case and separators.
				Config: operationConfig(f, "scan", "stop", fmt.Sprintf(`{ scan_id = "%d" }`, scanID), false),
				ConfigPlanChecks: resource.ConfigPlanChecks{
					PreApply: []plancheck.PlanCheck{
						plancheck.ExpectResourceAction(operationResourceName, plancheck.ResourceActionDestroyBeforeCreate),
					},
				},
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(operationResourceName, tfjsonpath.New("result_json"), knownvalue.StringExact(`{}`)),
				},
			},
		},
	})
}

func TestAccOperationResource_readOnlyActions(t *testing.T) {
	t.Parallel()

	f := testhelpers.NewFakeNessus(t)

	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t, f) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: operationConfig(f, "Plugin", "listPluginsInFamily", `{ familyId = "2" }`, false),
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(operationResourceName, tfjsonpath.New("result_json"),
						knownvalue.StringRegexp(regexp.MustCompile(`"name":"HTTP Server Type and Version"`))),
				},
			},
			{
				Config: operationConfig(f, "session", "getDetails", `{}`, false),
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(operationResourceName, tfjsonpath.New("result_json"),
						knownvalue.StringRegexp(regexp.MustCompile(`"username":"admin"`))),
				},
			},
		},
	})
}

func TestAccOperationResource_negative(t *testing.T) {
	t.Parallel()

	t.Run("unknown action", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{
					Config:      operationConfig(f, "scan", "explode", `{}`, false),
					ExpectError: regexp.MustCompile(`(?s)Unknown\s+action.*Valid\s+actions:`),
				},
			},
		})
	})

	t.Run("unknown kind", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{
					Config:      operationConfig(f, "agent", "list", `{}`, false),
					ExpectError: regexp.MustCompile(`(?s)kind.*value\s+must\s+be\s+one\s+of`),
				},
			},
		})
	})

	t.Run("missing required argument fails locally", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{
					Config:      operationConfig(f, "scan", "launch", `{}`, false),
					ExpectError: regexp.MustCompile(`(?s)scan\s+launch\s+failed.*never\s+sent`),
				},
			},
		})
	})

	t.Run("continue_on_fail records the error", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{
					Config: operationConfig(f, "scan", "stop", `{ scanId = "999" }`, true),
					ConfigStateChecks: []statecheck.StateCheck{
						statecheck.ExpectKnownValue(operationResourceName, tfjsonpath.New("result_json"), knownvalue.Null()),
						statecheck.ExpectKnownValue(operationResourceName, tfjsonpath.New("error"),
							knownvalue.StringExact("Nessus API Error: The requested file was not found.")),
					},
				},
			},
		})
	})
}
