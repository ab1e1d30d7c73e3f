package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Debug selects which components emit trace records. It is an explicit
// value carried by the session; components only see the bits they are
// handed.
type Debug uint32

const (
	DebugLike Debug = 1 << iota
	DebugUsage
	DebugWrite
	DebugRow
	DebugProps

	DebugAll = DebugLike | DebugUsage | DebugWrite | DebugRow | DebugProps
)

var debugNames = []struct {
	name string
	bit  Debug
}{
	{"like", DebugLike},
	{"usage", DebugUsage},
	{"write", DebugWrite},
	{"row", DebugRow},
	{"props", DebugProps},
	{"all", DebugAll},
}

// Has reports whether every bit of d2 is enabled.
func (d Debug) Has(d2 Debug) bool { return d&d2 == d2 && d2 != 0 }

// ParseDebugOptions parses the legacy colon separated option string,
// e.g. "debug_like:debug_usage". The "debug_" prefix is optional.
func ParseDebugOptions(s string) (Debug, error) {
	var d Debug
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ',' }) {
		bit, err := lookupDebug(tok)
		if err != nil {
			return 0, err
		}
		d |= bit
	}
	return d, nil
}

func lookupDebug(tok string) (Debug, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tok)), "debug_")
	for _, n := range debugNames {
		if n.name == name {
			return n.bit, nil
		}
	}
	return 0, fmt.Errorf("unknown debug option %q", tok)
}

func (d Debug) String() string {
	if d == DebugAll {
		return "all"
	}
	var parts []string
	for _, n := range debugNames {
		if n.bit != DebugAll && d&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ":")
}

// UnmarshalYAML accepts either a list of names or a colon separated string.
func (d *Debug) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := ParseDebugOptions(node.Value)
		if err != nil {
			return err
		}
		*d = v
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		v, err := ParseDebugOptions(strings.Join(names, ":"))
		if err != nil {
			return err
		}
		*d = v
		return nil
	default:
		return fmt.Errorf("debug: expected string or list at line %d", node.Line)
	}
}
