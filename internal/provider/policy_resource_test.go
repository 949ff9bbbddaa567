// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/devops-wiz/terraform-provider-nessus/internal/provider/testhelpers"
	"github.com/hashicorp/terraform-plugin-testing/helper/acctest"
	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
	"github.com/hashicorp/terraform-plugin-testing/knownvalue"
	"github.com/hashicorp/terraform-plugin-testing/plancheck"
	"github.com/hashicorp/terraform-plugin-testing/statecheck"
	"github.com/hashicorp/terraform-plugin-testing/terraform"
	"github.com/hashicorp/terraform-plugin-testing/tfjsonpath"
)

func TestAccPolicyResource_basic(t *testing.T) {
	t.Parallel()

	f := testhelpers.NewFakeNessus(t)
	name := acctest.RandomWithPrefix("tf-acc-policy")
	renamed := name + "-v2"
	cfg := testhelpers.PolicyTmplCfg{
		TemplateUUID: testhelpers.FakeAdvancedPolicyTmpl,
		Name:         name,
		Description:  "baseline policy",
		SettingsJSON: `{ scan_webapps = "yes" }`,
	}
	updated := cfg
	updated.Name = renamed

	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t, f) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testhelpers.PolicyConfig(t, f, cfg),
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(policyResourceName, tfjsonpath.New("name"), knownvalue.StringExact(name)),
					statecheck.ExpectKnownValue(policyResourceName, tfjsonpath.New("description"), knownvalue.StringExact("baseline policy")),
					statecheck.ExpectKnownValue(policyResourceName, tfjsonpath.New("template_uuid"), knownvalue.StringExact(testhelpers.FakeAdvancedPolicyTmpl)),
					statecheck.ExpectKnownValue(policyResourceName, tfjsonpath.New("policy_id"), knownvalue.Int64Exact(101)),
					statecheck.ExpectKnownValue(policyResourceName, tfjsonpath.New("settings_json"), knownvalue.StringExact(`{"scan_webapps":"yes"}`)),
				},
			},
			{
				Config: testhelpers.PolicyConfig(t, f, updated),
				ConfigPlanChecks: resource.ConfigPlanChecks{
					PreApply: []plancheck.PlanCheck{
						plancheck.ExpectResourceAction(policyResourceName, plancheck.ResourceActionUpdate),
					},
				},
				ConfigStateChecks: []statecheck.StateCheck{
					statecheck.ExpectKnownValue(policyResourceName, tfjsonpath.New("name"), knownvalue.StringExact(renamed)),
					statecheck.ExpectKnownValue(policyResourceName, tfjsonpath.New("policy_id"), knownvalue.Int64Exact(101)),
				},
				Check: func(*terraform.State) error {
					for _, r := range f.Requests() {
						if r.Method == http.MethodPut && r.Path == "/policies/101" {
							if !strings.Contains(r.Body, `"name":"`+renamed+`"`) || !strings.Contains(r.Body, `"scan_webapps":"yes"`) {
								return fmt.Errorf("unexpected update body: %s", r.Body)
							}
							return nil
						}
					}
					return fmt.Errorf("no policy update request recorded")
				},
			},
			{
				ImportState:             true,
				ImportStateVerify:       true,
				ResourceName:            policyResourceName,
				ImportStateVerifyIgnore: []string{"settings_json"},
			},
		},
	})
}

func TestAccPolicyResource_negative(t *testing.T) {
	t.Parallel()

	t.Run("settings_json must be an object", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{
					Config: testhelpers.PolicyConfig(t, f, testhelpers.PolicyTmplCfg{
						TemplateUUID: testhelpers.FakeAdvancedPolicyTmpl,
						Name:         "tf-acc-policy-neg",
						SettingsJSON: `["not", "an", "object"]`,
					}),
					ExpectError: regexp.MustCompile(`(?s)Invalid\s+settings_json`),
				},
			},
		})
	})

	t.Run("unknown template", func(t *testing.T) {
		f := testhelpers.NewFakeNessus(t)
		f.FailNext(http.MethodPost, "/policies", http.StatusBadRequest, "")
		resource.Test(t, resource.TestCase{
			PreCheck:                 func() { testAccPreCheck(t, f) },
			ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
			Steps: []resource.TestStep{
				{
					Config: testhelpers.PolicyConfig(t, f, testhelpers.PolicyTmplCfg{
						TemplateUUID: "does-not-exist",
						Name:         "tf-acc-policy-neg",
					}),
					ExpectError: regexp.MustCompile(`(?s)Bad\s+Request:\s+Invalid\s+parameters\s+provided`),
				},
			},
		})
	})
}
