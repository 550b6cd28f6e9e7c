package toolhost

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type params map[string]any

func (p params) str(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

func (p params) requireStr(key string) (string, error) {
	if s := p.str(key); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("missing parameter %q", key)
}

func (p params) requireFloat(key string) (float64, error) {
	switch v := p[key].(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %q is not a number", key)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	return 0, fmt.Errorf("parameter %q is not a number", key)
}
