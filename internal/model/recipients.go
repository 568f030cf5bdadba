package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Recipients accepts either a single address or a list of addresses in JSON
type Recipients []string

// UnmarshalJSON implements json.Unmarshaler
func (r *Recipients) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}

	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*r = compact([]string{single})
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("recipients must be a string or a list of strings: %w", err)
	}
	*r = compact(list)
	return nil
}

// First returns the first address, or "" when there is none.
func (r Recipients) First() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

func compact(in []string) Recipients {
	out := make(Recipients, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
