package graph

import (
	"fmt"
	"strings"
)

// PortKind distinguishes input ports from output ports.
// Inputs and outputs are separate id namespaces.
type PortKind string

const (
	PortInput  PortKind = "input"
	PortOutput PortKind = "output"
)

// Valid reports whether k is one of the known port kinds.
func (k PortKind) Valid() bool {
	return k == PortInput || k == PortOutput
}

// Port is a named connection point on a node.
type Port struct {
	ID   string
	Name string
}

// CreatePort builds the port that would be appended to a list that
// currently holds existingCount ports of the given kind.
//
// The id is "<kind>-<existingCount>" and the name "<Kind> <existingCount+1>".
// No collision check is made. Removing the last port and adding a new one
// yields the same id again, which is harmless because removal cascades to
// the port's edges. Removing any other port and then adding one duplicates
// the id of the current last port; Check reports that as DUPLICATE_PORT.
func CreatePort(kind PortKind, existingCount int) Port {
	return Port{
		ID:   fmt.Sprintf("%s-%d", kind, existingCount),
		Name: fmt.Sprintf("%s %d", titleKind(kind), existingCount+1),
	}
}

// RemovePort returns a new list without the port at index.
// The relative order of the remaining ports is preserved and their ids are
// left untouched. Returns false if index is out of range.
func RemovePort(ports []Port, index int) ([]Port, Port, bool) {
	if index < 0 || index >= len(ports) {
		return ports, Port{}, false
	}
	out := make([]Port, 0, len(ports)-1)
	out = append(out, ports[:index]...)
	out = append(out, ports[index+1:]...)
	return out, ports[index], true
}

// RenamePort returns a new list where only the name of the port at index
// has changed. Returns false if index is out of range.
func RenamePort(ports []Port, index int, name string) ([]Port, bool) {
	if index < 0 || index >= len(ports) {
		return ports, false
	}
	out := make([]Port, len(ports))
	copy(out, ports)
	out[index].Name = name
	return out, true
}

// HasPort reports whether a port with the given id is in the list.
func HasPort(ports []Port, id string) bool {
	for _, p := range ports {
		if p.ID == id {
			return true
		}
	}
	return false
}

func titleKind(kind PortKind) string {
	s := string(kind)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
