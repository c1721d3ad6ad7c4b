// Package webhook notifies the site's cache-refresh endpoint after a
// manifest changes. Delivery is strictly best-effort: any failure is a
// warning, never a failure of the generation run, and the notifier only
// fires after the write decision is final.
package webhook

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharpframe/portfolio-manifest/internal/conf"
	"github.com/sharpframe/portfolio-manifest/internal/httpclient"
)

const (
	// notifyTimeout bounds a single delivery attempt.
	notifyTimeout = 8 * time.Second

	// maxErrorBodySize limits how much of an error response is read for
	// the warning log line.
	maxErrorBodySize = 1024

	secretHeader = "x-webhook-secret"
	refreshPath  = "/refresh/"
	typeToken    = "{type}"
)

// Notifier posts refresh notifications for regenerated manifests.
type Notifier struct {
	settings conf.WebhookSettings
	client   *httpclient.Client
	log      *slog.Logger
	source   string
}

// New creates a Notifier from webhook settings.
func New(settings conf.WebhookSettings) *Notifier {
	return &Notifier{
		settings: settings,
		client:   httpclient.New(&httpclient.Config{DefaultTimeout: notifyTimeout}),
		log:      slog.Default().With("service", "webhook"),
		source:   "portfolio-manifest",
	}
}

// StdClient exposes the underlying http.Client for transport swapping in
// tests.
func (n *Notifier) StdClient() *http.Client {
	return n.client.StdClient()
}

// Notify POSTs a refresh event for one manifest type. Returns true only on
// a delivered 2xx response. Disabled or unconfigured webhooks skip without
// a network call.
func (n *Notifier) Notify(ctx context.Context, manifestType string, details map[string]any) bool {
	if n.settings.Disabled {
		n.log.Debug("webhook disabled, skipping", "type", manifestType)
		return false
	}
	url := n.resolveURL(manifestType)
	if url == "" {
		n.log.Debug("no webhook configured, skipping", "type", manifestType)
		return false
	}

	payload := map[string]any{
		"type":      manifestType,
		"source":    n.source,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"runId":     uuid.NewString(),
	}
	maps.Copy(payload, details)

	headers := map[string]string{}
	if n.settings.Secret != "" {
		headers[secretHeader] = n.settings.Secret
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	resp, err := n.client.PostJSON(ctx, url, payload, headers)
	if err != nil {
		n.log.Warn("⚠️ webhook delivery failed", "type", manifestType, "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		n.log.Warn("⚠️ webhook rejected", "type", manifestType, "url", url,
			"status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return false
	}

	n.log.Info("✅ webhook delivered", "type", manifestType, "url", url, "status", resp.StatusCode)
	return true
}

// resolveURL builds the target URL: an explicit URL with {type}
// substitution wins, then an explicit URL (given a /refresh/<type> suffix
// if it is not already shaped that way), then the base URL plus
// /refresh/<type>. Empty when nothing is configured.
func (n *Notifier) resolveURL(manifestType string) string {
	if u := n.settings.URL; u != "" {
		if strings.Contains(u, typeToken) {
			return strings.ReplaceAll(u, typeToken, manifestType)
		}
		if strings.Contains(u, refreshPath) {
			return u
		}
		return strings.TrimRight(u, "/") + refreshPath + manifestType
	}
	if base := n.settings.BaseURL; base != "" {
		return strings.TrimRight(base, "/") + refreshPath + manifestType
	}
	return ""
}
