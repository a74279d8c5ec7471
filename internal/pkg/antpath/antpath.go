// Package antpath implements ant-style URL pattern matching as used by the
// dynamic menu authorization layer: "*" matches exactly one path segment,
// "**" matches any number of segments (including none), and "*" inside a
// segment matches any run of characters within that segment.
package antpath

import "strings"

// Match reports whether path matches the ant-style pattern.
// Both are treated as "/"-separated; leading and trailing slashes are ignored.
func Match(pattern, path string) bool {
	if pattern == "" {
		return false
	}
	return matchSegments(split(pattern), split(path))
}

// ValidPattern reports whether the pattern is usable for matching: rooted at
// "/" and free of segments mixing "**" with other characters.
func ValidPattern(pattern string) bool {
	if !strings.HasPrefix(pattern, "/") {
		return false
	}
	for _, segment := range split(pattern) {
		if strings.Contains(segment, "**") && segment != "**" {
			return false
		}
	}
	return true
}

func split(s string) []string {
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	if pattern[0] == "**" {
		// "**" consumes zero or more segments
		if matchSegments(pattern[1:], path) {
			return true
		}
		if len(path) > 0 {
			return matchSegments(pattern, path[1:])
		}
		return false
	}

	if len(path) == 0 {
		return false
	}

	if !matchSegment(pattern[0], path[0]) {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

// matchSegment matches one pattern segment against one path segment, with
// "*" matching any run of characters
func matchSegment(pattern, segment string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return pattern == segment
	}

	parts := strings.Split(pattern, "*")

	if !strings.HasPrefix(segment, parts[0]) {
		return false
	}
	segment = segment[len(parts[0]):]

	last := parts[len(parts)-1]
	if !strings.HasSuffix(segment, last) {
		return false
	}
	segment = segment[:len(segment)-len(last)]

	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(segment, part)
		if idx < 0 {
			return false
		}
		segment = segment[idx+len(part):]
	}
	return true
}
