package common

import "strings"

// CleanFields trims and de-duplicates attribute field names, preserving
// order of first appearance. Case is kept: attribute keys are
// case-sensitive.
func CleanFields(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		f := strings.TrimSpace(s)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
