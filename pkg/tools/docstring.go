package tools

import (
	"regexp"
	"strings"
)

// docInfo is the parsed documentation of a tool
type docInfo struct {
	Short  string
	Params map[string]string
}

var (
	argsHeader     = regexp.MustCompile(`^(Args|Arguments|Parameters|Params):\s*$`)
	sectionHeader  = regexp.MustCompile(`^[A-Z][A-Za-z ]*:\s*$`)
	googleArgEntry = regexp.MustCompile(`^(\w+)\s*(\([^)]*\))?\s*:\s*(.*)$`)
	restParamEntry = regexp.MustCompile(`^:param\s+(?:[^:]*\s)?(\w+)\s*:\s*(.*)$`)
)

// parseDoc extracts the short description and the per-parameter descriptions.
// Both Google style ("Args:" section) and reST (":param name: ...") are understood.
func parseDoc(doc string) docInfo {
	info := docInfo{Params: map[string]string{}}
	lines := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !sectionHeader.MatchString(trimmed) && !strings.HasPrefix(trimmed, ":") {
			info.Short = trimmed
		}
		break
	}

	var (
		inArgs       bool
		headerIndent int
		current      string
		entryIndent  = -1
	)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		if m := restParamEntry.FindStringSubmatch(trimmed); m != nil {
			inArgs = false
			current = m[1]
			info.Params[current] = strings.TrimSpace(m[2])
			continue
		}

		if argsHeader.MatchString(trimmed) {
			inArgs, headerIndent, current, entryIndent = true, indent, "", -1
			continue
		}
		if !inArgs {
			if current != "" && trimmed != "" && !strings.HasPrefix(trimmed, ":") && indent > 0 {
				info.Params[current] = joinDoc(info.Params[current], trimmed)
			} else {
				current = ""
			}
			continue
		}

		if trimmed == "" {
			continue
		}
		if indent <= headerIndent {
			inArgs, current = false, ""
			continue
		}

		if m := googleArgEntry.FindStringSubmatch(trimmed); m != nil && (entryIndent < 0 || indent <= entryIndent) {
			entryIndent = indent
			current = m[1]
			info.Params[current] = strings.TrimSpace(m[3])
			continue
		}
		if current != "" {
			info.Params[current] = joinDoc(info.Params[current], trimmed)
		}
	}

	for name, desc := range info.Params {
		if desc == "" {
			delete(info.Params, name)
		}
	}
	return info
}

func joinDoc(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}
