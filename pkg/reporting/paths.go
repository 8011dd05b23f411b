package reporting

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultOutputDir returns the results directory for one symbol/interval
// pair, e.g. results/EUR_USD_15-minute.
func DefaultOutputDir(symbol, interval string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	i := strings.ToLower(strings.TrimSpace(interval))
	if s == "" {
		s = "UNKNOWN"
	}
	if i == "" {
		i = "unknown"
	}
	s = strings.ReplaceAll(s, "/", "_")

	return filepath.Join("results", fmt.Sprintf("%s_%s", s, i))
}
