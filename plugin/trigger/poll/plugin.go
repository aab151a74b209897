// Plugin entry point for hosts that load trigger factories from shared
// objects. Build with: go build -buildmode=plugin -o romulus_poll.so ./plugin/trigger/poll
package main

import (
	"github.com/romulus-live/romulus-connect/pkg/protocol"
	romulus "github.com/romulus-live/romulus-connect/pkg/triggers/romulus"
)

var _ protocol.TriggerFactory = (*romulus.PollTriggerFactory)(nil)

// Trigger is the exported factory symbol the plugin loader looks up.
var Trigger = romulus.NewPollTriggerFactory()

func main() {}
