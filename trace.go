package async

import (
	"fmt"
	"reflect"
	"strings"
)

// traceString builds a diagnostic description of ev and the chain of
// promise nodes it is tracking, walking innerForTrace the way the
// original implementation's traceImpl walks getInnerForTrace. Go type
// names from reflect.TypeOf are already demangled — Go has no symbol
// mangling — so there is no separate demangler collaborator to wire.
func traceString(ev *Event, n promiseNode) string {
	var sb strings.Builder
	if ev != nil {
		fmt.Fprintf(&sb, "event %p", ev)
	} else {
		sb.WriteString("event <nil>")
	}
	for n != nil {
		sb.WriteString(" <- ")
		sb.WriteString(reflect.TypeOf(n).String())
		n = n.innerForTrace()
	}
	return sb.String()
}
