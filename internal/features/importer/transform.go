package importer

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// RowTransform is an optional operator-supplied script applied to every raw
// row before mapping. The script sees a `row` map of column name to cell
// value and may rewrite cells in place (trim whitespace, normalize SKU
// prefixes, fix regional decimal separators, and so on).
type RowTransform struct {
	compiled *tengo.Compiled
}

// NewRowTransform compiles the script at path. An empty path disables the
// hook and returns nil without error.
func NewRowTransform(path string) (*RowTransform, error) {
	if path == "" {
		return nil, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transform script: %w", err)
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("text", "math", "times"))
	if err := script.Add("row", map[string]interface{}{}); err != nil {
		return nil, err
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile transform script: %w", err)
	}

	return &RowTransform{compiled: compiled}, nil
}

// Apply runs the script against one row and returns the rewritten copy.
// The input row is never mutated.
func (t *RowTransform) Apply(row RawRow) (RawRow, error) {
	if t == nil {
		return row, nil
	}

	in := make(map[string]interface{}, len(row))
	for k, v := range row {
		in[k] = v
	}

	run := t.compiled.Clone()
	if err := run.Set("row", in); err != nil {
		return nil, err
	}
	if err := run.Run(); err != nil {
		return nil, err
	}

	out := make(RawRow, len(row))
	for k, v := range run.Get("row").Map() {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out, nil
}
