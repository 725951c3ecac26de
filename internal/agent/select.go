package agent

import (
	"fmt"
	"strings"

	"github.com/quizpilot/quizpilot/internal/mcq"
)

// selectTarget splits an option-element handle into the owning select's
// handle and the zero-based option index. nth-of-type on an option counts
// exactly the select's options, so the position maps 1:1 to selectedIndex.
func selectTarget(ref mcq.Handle) (mcq.Handle, int, bool) {
	s := string(ref)
	i := strings.LastIndex(s, " > ")
	if i < 0 {
		return "", 0, false
	}
	var nth int
	if _, err := fmt.Sscanf(s[i+3:], "option:nth-of-type(%d)", &nth); err != nil || nth < 1 {
		return "", 0, false
	}
	return mcq.Handle(s[:i]), nth - 1, true
}
