package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write writes strict JSON output for CLI commands.
//
// NOTE: Output stays strict JSON only so it is scriptable with jq. If a
// command needs to communicate how to fetch more data, use a `meta` object.
func Write(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
