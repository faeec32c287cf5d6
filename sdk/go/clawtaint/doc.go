// Package clawtaint provides in-process trust-erosion gating for Go agent
// frameworks. It wraps tool functions, classifies the network resources
// they touch, erodes a per-session trust score on untrusted access, and
// blocks shell commands the session's restriction tier no longer permits.
//
// Usage:
//
//	ct, err := clawtaint.New(clawtaint.WithConfig("~/.clawtaint/config.yaml"))
//	wrapped := ct.Wrap(myTool)
//	result, err := wrapped(ctx, clawtaint.Action{
//	    Source:  "shell",
//	    Payload: map[string]any{"command": "rm -rf ./build"},
//	})
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/ed-dc/ClawTaint/sdk/go/clawtaint.
package clawtaint
