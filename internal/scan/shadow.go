package scan

import (
	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// ShadowScanner applies the native-control grouping rules inside every
// inlined shadow root, each root scanned independently with the same
// extraction rules as the light DOM. Support is additive: the regular
// scanners prune shadow subtrees, so nothing is reported twice.
type ShadowScanner struct{}

func (ShadowScanner) Name() string { return "shadow" }

func (ShadowScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	if !env.Opts.ShadowDOM {
		return nil
	}
	var out []mcq.MCQ
	for _, root := range dom.ShadowRoots(snap.Root) {
		out = append(out, radioGroupsIn(root, env, "shadow")...)
		out = append(out, checkboxGroupsIn(root, env, "shadow")...)
		out = append(out, selectsIn(root, env, "shadow")...)
	}
	return out
}
