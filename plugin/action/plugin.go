// Plugin entry point for hosts that load action factories from shared
// objects. Build with: go build -buildmode=plugin -o romulus.so ./plugin/action
package main

import (
	romulus "github.com/romulus-live/romulus-connect/pkg/actions/romulus"
	"github.com/romulus-live/romulus-connect/pkg/protocol"
)

var _ protocol.ActionFactory = (*romulus.ActionFactory)(nil)

// Action is the exported factory symbol the plugin loader looks up.
var Action = romulus.NewActionFactory()

func main() {}
