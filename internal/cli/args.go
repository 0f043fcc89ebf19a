package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAssignments turns "key=value" arguments into step data.
// Values that parse as numbers are stored as float64, everything else as strings.
func ParseAssignments(args []string) (map[string]any, error) {
	data := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (want key=value)", arg)
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			data[key] = f
			continue
		}
		data[key] = value
	}
	return data, nil
}
