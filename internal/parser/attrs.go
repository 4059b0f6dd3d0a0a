package parser

import (
	"strconv"
	"strings"

	"github.com/dshills/wgsldoc/internal/grammar"
)

// attribute returns the name and raw argument text of a RuleAttribute node
func attribute(n *grammar.Node) (name, args string) {
	if id := n.Child(grammar.RuleIdent); id != nil {
		name = id.Text
	}
	if a := n.Child(grammar.RuleAttributeArgs); a != nil {
		args = a.Text
	}
	return name, args
}

// attributeUint16 parses @group/@binding arguments; anything malformed is 0
func attributeUint16(args string) uint16 {
	args = strings.TrimSuffix(strings.TrimSuffix(args, "u"), "i")
	v, err := strconv.ParseUint(args, 10, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

func isStage(attr string) bool {
	switch attr {
	case "vertex", "fragment", "compute":
		return true
	default:
		return false
	}
}
