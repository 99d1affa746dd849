package deploy

import (
	"fmt"
	"sort"
	"strings"
)

// changeOrder lists change kinds in the order they are reported.
var changeOrder = []string{"create", "update", "replace", "create-replacement", "delete-replaced", "delete", "same"}

// Summary renders a change summary such as "3 create, 1 update, 22
// unchanged". Unknown kinds follow the known ones in lexical order.
func Summary(changes map[string]int) string {
	if len(changes) == 0 {
		return "no changes"
	}

	seen := make(map[string]bool, len(changeOrder))
	var parts []string
	for _, kind := range changeOrder {
		seen[kind] = true
		if n := changes[kind]; n > 0 {
			parts = append(parts, describe(kind, n))
		}
	}

	var rest []string
	for kind, n := range changes {
		if !seen[kind] && n > 0 {
			rest = append(rest, kind)
		}
	}
	sort.Strings(rest)
	for _, kind := range rest {
		parts = append(parts, describe(kind, changes[kind]))
	}

	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}

func describe(kind string, n int) string {
	if kind == "same" {
		return fmt.Sprintf("%d unchanged", n)
	}
	return fmt.Sprintf("%d %s", n, kind)
}
