package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/sprout/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a run.
// Phases that ran are drawn with their outcome; phases cut off by a terminal
// error are omitted and the chain ends in an "aborted" node.
// Shapes:
// - Start/Done: ((Circle))
// - Skipped phase: [/Parallelogram/]
// - Other phases: [Rectangle]
func GenerateMermaid(r *domain.Report) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"start\"))\n")

	prev := "start"
	for _, p := range r.Phases {
		id := sanitizeMermaidID(string(p.Phase))

		opener, closer := "[", "]"
		if p.Status == domain.StatusSkipped {
			opener, closer = "[/", "/]"
		}

		label := string(p.Phase)
		if n := len(p.Commands); n > 0 {
			label = fmt.Sprintf("%s <br/> %d commands", label, n)
		}
		if p.Reason != "" {
			label = fmt.Sprintf("%s <br/> %s", label, strings.ReplaceAll(p.Reason, "\"", "'"))
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, id))
		prev = id
	}

	if r.Error != "" {
		sb.WriteString("    aborted((\"aborted\"))\n")
		sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> aborted\n", prev, strings.ReplaceAll(r.Error, "\"", "'")))
	} else {
		sb.WriteString("    done((\"done\"))\n")
		sb.WriteString(fmt.Sprintf("    %s --> done\n", prev))
	}

	sb.WriteString("\n    %% Status Styles\n")
	// Force black text (color:#000) for contrast on light and dark themes.
	sb.WriteString("    classDef success fill:#dcfce7,stroke:#16a34a,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef failed fill:#fef3c7,stroke:#d97706,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef aborted fill:#fee2e2,stroke:#dc2626,stroke-width:4px,color:#000;\n")
	sb.WriteString("    classDef skipped fill:#f3f4f6,stroke:#9ca3af,stroke-dasharray:4,color:#000;\n")
	for _, p := range r.Phases {
		if p.Status == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(string(p.Phase)), p.Status))
	}
	if r.Error != "" {
		sb.WriteString("    class aborted aborted;\n")
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
