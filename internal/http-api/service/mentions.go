package service

import (
	"regexp"
	"strings"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions parses free text for @handle references and returns the
// distinct lowercase handles in order of first appearance. Pure and
// deterministic: same input always yields the same output.
func ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)

	seen := make(map[string]struct{}, len(matches))
	handles := make([]string, 0, len(matches))
	for _, match := range matches {
		handle := strings.ToLower(match[1])
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		handles = append(handles, handle)
	}
	return handles
}
