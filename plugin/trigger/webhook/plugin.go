// Plugin entry point for hosts that load trigger factories from shared
// objects. Build with: go build -buildmode=plugin -o romulus_webhook.so ./plugin/trigger/webhook
package main

import (
	"github.com/romulus-live/romulus-connect/pkg/protocol"
	romulus "github.com/romulus-live/romulus-connect/pkg/triggers/romulus"
)

var _ protocol.TriggerFactory = (*romulus.WebhookTriggerFactory)(nil)

// Trigger is the exported factory symbol the plugin loader looks up.
var Trigger = romulus.NewWebhookTriggerFactory()

func main() {}
