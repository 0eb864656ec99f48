package rope

import (
	"strconv"
	"strings"
)

// textBuilder is a thin wrapper over strings.Builder so debug.go has no
// stdlib dependency beyond what ToText needs.
type textBuilder struct {
	b strings.Builder
}

func (t *textBuilder) String() string { return t.b.String() }

// debugTagger is an optional capability: an item type implementing it
// controls its own leaf label in ToText's output. Items that don't
// implement it render as their leaf weight.
type debugTagger interface {
	DebugTag() string
}

// writeNode renders n as a bracketed S-expression: "[left right]" for
// internal nodes, and the leaf's debug tag (or its weight) for leaves. The
// sentinel renders as "_".
func writeNode[T Item[T, M], M Metrics[M]](sb *textBuilder, n *node[T, M]) {
	if n.leaf {
		if n.count() == 0 {
			sb.b.WriteString("_")
			return
		}
		if dt, ok := any(n.value).(debugTagger); ok {
			sb.b.WriteString(dt.DebugTag())
			return
		}
		sb.b.WriteString(strconv.FormatUint(weightOf(n.metrics), 10))
		return
	}
	sb.b.WriteString("[")
	writeNode[T, M](sb, n.left)
	sb.b.WriteString(" ")
	writeNode[T, M](sb, n.right)
	sb.b.WriteString("]")
}
