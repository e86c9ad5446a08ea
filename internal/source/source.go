// Package source models source files and byte spans for the Felico
// pipeline. A File outlives every node derived from it within one
// compilation session; spans reference it by byte offset so that
// diagnostics can recover exact line/column positions and excerpts.
package source

import "strings"

// File is a single source file: a path paired with its full content.
type File struct {
	Path    string
	Content string
}

// Span is a half-open byte range [Start, End) into a File's Content.
type Span struct {
	Start int
	End   int
}

// Pos is a 1-based line/column position, with Column counted in Unicode
// code points from the start of the line (per spec.md §6).
type Pos struct {
	Line   int
	Column int
}

// IsZero reports whether the span carries no width and no offset, the
// default value for not-yet-assigned spans.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Cover returns the smallest span enclosing both s and other.
func (s Span) Cover(other Span) Span {
	if other.IsZero() {
		return s
	}
	if s.IsZero() {
		return other
	}
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// Text returns the slice of f.Content covered by span.
func (f *File) Text(span Span) string {
	if span.Start < 0 || span.End > len(f.Content) || span.Start > span.End {
		return ""
	}
	return f.Content[span.Start:span.End]
}

// Position computes the 1-based line/column of a byte offset within f.
// Column is a count of Unicode code points from the start of the line.
func (f *File) Position(offset int) Pos {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line := 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if f.Content[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col := 1
	for _, r := range f.Content[lineStart:offset] {
		_ = r
		col++
	}
	return Pos{Line: line, Column: col}
}

// Line returns the content of the given 1-based line number, without its
// trailing newline, or "" if out of range.
func (f *File) Line(lineNum int) string {
	if lineNum < 1 {
		return ""
	}
	lines := strings.Split(f.Content, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// LineStart returns the byte offset where the given 1-based line begins.
func (f *File) LineStart(lineNum int) int {
	if lineNum <= 1 {
		return 0
	}
	count := 1
	for i := 0; i < len(f.Content); i++ {
		if count == lineNum {
			return i
		}
		if f.Content[i] == '\n' {
			count++
		}
	}
	return len(f.Content)
}
