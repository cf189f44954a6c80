package filter

import "strings"

// commandVocabulary anchors the bare-line heuristic: a line outside a
// fence counts as a candidate when its first token, after
// sanitization, is one of these. The sanitization step matters; a
// Thai-prefixed "แgit" must still be recognized so it can be flagged
// unsafe rather than silently dropped.
var commandVocabulary = map[string]struct{}{
	"git": {}, "npm": {}, "npx": {}, "yarn": {}, "node": {}, "go": {},
	"ls": {}, "cd": {}, "rm": {}, "cp": {}, "mv": {}, "mkdir": {},
	"touch": {}, "cat": {}, "grep": {}, "find": {}, "kill": {},
	"ps": {}, "make": {}, "docker": {}, "kubectl": {}, "curl": {},
	"echo": {}, "chmod": {}, "chown": {}, "tar": {}, "pwd": {},
	"test": {},
}

// extract pulls candidate commands out of loosely structured text.
// Three sources, in input order: fenced code block lines, lines with a
// shell prompt marker ("$ " or "> "), and bare lines whose first token
// is a known command. Exact duplicates collapse to one candidate.
func (f *Filter) extract(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		if _, dup := seen[raw]; dup {
			return
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}

	inFence := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			add(stripPromptMarker(trimmed))
			continue
		}
		if marker := stripPromptMarker(trimmed); marker != trimmed {
			add(marker)
			continue
		}
		if f.looksLikeCommand(trimmed) {
			add(trimmed)
		}
	}
	return out
}

func stripPromptMarker(line string) string {
	for _, marker := range []string{"$ ", "> "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}
	return line
}

func (f *Filter) looksLikeCommand(line string) bool {
	if line == "" {
		return false
	}
	first := line
	if idx := strings.IndexAny(line, " \t"); idx > 0 {
		first = line[:idx]
	}
	first = strings.ToLower(f.sanitizer.Sanitize(first))
	_, ok := commandVocabulary[first]
	return ok
}
