package doctor

import (
	"fmt"
	"io"
	"strings"
)

// PrintChecklist prints check results as a human-readable checklist and
// reports whether every check passed.
func PrintChecklist(w io.Writer, results []Result) bool {
	for _, result := range results {
		prefix := strings.ToUpper(string(result.Status))
		fmt.Fprintf(w, "[%-4s]  %-32s  %s\n", prefix, result.Name, result.Message)
	}
	fmt.Fprintln(w)

	if !OK(results) {
		fmt.Fprintln(w, "Some checks failed. The bootstrap would stop with an error.")
		return false
	}
	fmt.Fprintln(w, "All required checks passed.")
	return true
}
