package canvas

import (
	"encoding/json"

	"github.com/ByLCY/vellum/geom"
)

type opJSON struct {
	Op   string `json:"op"`
	Data Op     `json:"data,omitempty"`
}

// MarshalJSON dumps page metadata and recorded ops, for debugging.
func (d *Deferred) MarshalJSON() ([]byte, error) {
	ops := make([]opJSON, 0, len(d.ops))
	for _, op := range d.ops {
		entry := opJSON{Op: op.Kind()}
		switch op.(type) {
		case PushOp, PopOp:
		default:
			entry.Data = op
		}
		ops = append(ops, entry)
	}
	return json.Marshal(struct {
		FullSize geom.Size `json:"fullSize"`
		Size     geom.Size `json:"size"`
		DPI      float64   `json:"dpi"`
		Ops      []opJSON  `json:"ops"`
	}{d.FullSize, d.Size, d.DPI, ops})
}
