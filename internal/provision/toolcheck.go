package provision

import (
	"fmt"
	"os/exec"
	"strings"
)

// defaultTools mirrors the compiler toolchain the original image installs
// (build-essential + cmake) which the llama runtime build needs.
var defaultTools = []string{"cc", "c++", "make", "cmake"}

// ToolStatus describes one checked external tool.
type ToolStatus struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// ToolReport describes toolchain checks. It does not mutate state and is
// safe to call at any time.
type ToolReport struct {
	Tools   []ToolStatus `json:"tools"`
	Missing []string     `json:"missing,omitempty"`
}

// CheckTools verifies that required external binaries are resolvable on
// PATH. A non-empty missing set fails the step.
func (p *Provisioner) CheckTools() (ToolReport, error) {
	tools := p.Tools
	if len(tools) == 0 {
		tools = defaultTools
	}
	var r ToolReport
	for _, name := range tools {
		path, err := exec.LookPath(name)
		st := ToolStatus{Name: name, Found: err == nil, Path: path}
		r.Tools = append(r.Tools, st)
		if err != nil {
			r.Missing = append(r.Missing, name)
			p.log.Warn().Str("tool", name).Msg("tool not found")
			continue
		}
		p.log.Debug().Str("tool", name).Str("path", path).Msg("tool found")
	}
	if len(r.Missing) > 0 {
		return r, fmt.Errorf("missing tools: %s", strings.Join(r.Missing, ", "))
	}
	return r, nil
}
