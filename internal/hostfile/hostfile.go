// Package hostfile parses the newline-separated host lists handed to MPI
// launchers. An empty or absent hostfile means "this node only".
package hostfile

import (
	"fmt"
	"os"
	"strings"
)

// Hostfile is a parsed host list together with the path it came from. The
// path is what gets passed to mpirun; the parsed hosts exist for validation
// and status reporting.
type Hostfile struct {
	path  string
	hosts []string
}

// Localhost returns a hostfile representing only the local node. It has no
// backing path, so no hostfile flag is emitted for it.
func Localhost() *Hostfile {
	return &Hostfile{hosts: []string{"localhost"}}
}

// Load reads and parses a hostfile. Blank lines and '#' comments are ignored.
func Load(path string) (*Hostfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hostfile %s: %w", path, err)
	}
	hf := &Hostfile{path: path}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hf.hosts = append(hf.hosts, line)
	}
	if len(hf.hosts) == 0 {
		hf.hosts = []string{"localhost"}
	}
	return hf, nil
}

// Path returns the backing file path, or "" for the localhost hostfile.
func (h *Hostfile) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// Hosts returns the parsed host names.
func (h *Hostfile) Hosts() []string {
	if h == nil {
		return []string{"localhost"}
	}
	return h.hosts
}

// Len returns the number of hosts.
func (h *Hostfile) Len() int {
	return len(h.Hosts())
}

// IsLocal reports whether this hostfile refers only to the local node.
func (h *Hostfile) IsLocal() bool {
	return h == nil || h.path == ""
}
