// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/devops-wiz/terraform-provider-nessus/internal/nessus"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

var _ nessus.ContextLogger = tflogLogger{}

// tflogLogger forwards client transport logs to the Terraform log stream.
// The client rebinds it to each request context so transport logs carry the
// fields of the resource or data source call that issued the request.
type tflogLogger struct {
	ctx context.Context
}

func (l tflogLogger) WithContext(ctx context.Context) retryablehttp.LeveledLogger {
	return tflogLogger{ctx: ctx}
}

func (l tflogLogger) fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		switch v := keysAndValues[i+1].(type) {
		case http.Header:
			out[key] = RedactHeaders(v)
		case string:
			out[key] = RedactSecrets(v)
		default:
			out[key] = v
		}
	}
	return out
}

func (l tflogLogger) Error(msg string, keysAndValues ...interface{}) {
	tflog.Error(l.ctx, msg, l.fields(keysAndValues))
}

func (l tflogLogger) Info(msg string, keysAndValues ...interface{}) {
	tflog.Info(l.ctx, msg, l.fields(keysAndValues))
}

func (l tflogLogger) Debug(msg string, keysAndValues ...interface{}) {
	tflog.Debug(l.ctx, msg, l.fields(keysAndValues))
}

func (l tflogLogger) Warn(msg string, keysAndValues ...interface{}) {
	tflog.Warn(l.ctx, msg, l.fields(keysAndValues))
}

// nessusConfig converts the resolved provider configuration into client settings.
func (p *NessusProvider) nessusConfig(rc resolvedConfig) nessus.Config {
	return nessus.Config{
		BaseURL:         rc.baseURL,
		AccessKey:       rc.accessKey,
		SecretKey:       rc.secretKey,
		AllowSelfSigned: rc.allowSelfSigned,
		Timeout:         time.Duration(rc.httpTimeoutSeconds) * time.Second,
		UserAgent:       fmt.Sprintf("devops-wiz/terraform-provider-nessus/%s", p.version),
	}
}

// initNessusClient creates the Nessus client with the provider user agent and logging.
func (p *NessusProvider) initNessusClient(ctx context.Context, rc resolvedConfig) (*nessus.Client, error) {
	return nessus.New(p.nessusConfig(rc), nessus.WithLogger(tflogLogger{ctx: ctx}))
}

// testConnection checks API connectivity and appends diagnostics on failure.
func (p *NessusProvider) testConnection(ctx context.Context, client *nessus.Client, diags *diag.Diagnostics) bool {
	_, err := client.GetSessionDetails(ctx)
	return EnsureSuccessOrDiag(ctx, "authenticate (session)", err, diags)
}
