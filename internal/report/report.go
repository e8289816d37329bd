package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"wifisnap/internal/model"
)

// Write encodes v as a single JSON line. Nothing reaches w if encoding fails.
func Write(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func WriteError(w io.Writer, msg string) error {
	return Write(w, model.ErrorDocument{Error: msg})
}
