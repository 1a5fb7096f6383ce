package domain

import (
	"slices"
	"strings"
)

// ParseTags splits free-text tag input into sorted, unique tag names.
//
// Double-quoted groups are kept whole. The remaining text is split on commas
// when it contains any, otherwise on spaces. An unterminated quote is treated
// as plain text.
func ParseTags(input string) []string {
	if input == "" {
		return nil
	}
	if !strings.ContainsAny(input, `,"`) {
		return uniqueSorted(splitStrip(input, " "))
	}

	var words, loose []string
	rest := input
	for {
		open := strings.IndexByte(rest, '"')
		if open < 0 {
			loose = append(loose, rest)
			break
		}
		loose = append(loose, rest[:open])
		rest = rest[open+1:]

		end := strings.IndexByte(rest, '"')
		if end < 0 {
			loose = append(loose, rest)
			break
		}
		if word := strings.TrimSpace(rest[:end]); word != "" {
			words = append(words, word)
		}
		rest = rest[end+1:]
	}

	delimiter := " "
	for _, chunk := range loose {
		if strings.Contains(chunk, ",") {
			delimiter = ","
			break
		}
	}
	for _, chunk := range loose {
		words = append(words, splitStrip(chunk, delimiter)...)
	}

	return uniqueSorted(words)
}

// EditString renders names so that ParseTags(EditString(names)) returns them again.
func EditString(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		if strings.ContainsAny(name, ", ") {
			name = `"` + name + `"`
		}
		quoted = append(quoted, name)
	}
	slices.Sort(quoted)
	return strings.Join(quoted, ", ")
}

func splitStrip(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func uniqueSorted(words []string) []string {
	slices.Sort(words)
	return slices.Compact(words)
}
