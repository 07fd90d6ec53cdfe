package protocol

import "github.com/vango-dev/landing/pkg/dom"

// Patch is one DOM mutation on the wire. Target is the element's live id.
type Patch struct {
	Op     string `json:"op"`
	Target string `json:"t"`
	Key    string `json:"k,omitempty"`
	Value  string `json:"v,omitempty"`
}

// FromDOM converts recorded document mutations to wire patches.
func FromDOM(ps []dom.Patch) []Patch {
	out := make([]Patch, len(ps))
	for i, p := range ps {
		out[i] = Patch{Op: p.Op.String(), Target: p.LID, Key: p.Key, Value: p.Value}
	}
	return out
}
