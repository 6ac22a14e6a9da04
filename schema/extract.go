package schema

import "strings"

// ExtractionError reports text that does not embed a payload.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string { return "extract payload: " + e.Reason }

// ExtractPayload returns the substring of text strictly between its first
// and last line break. The surrounding lines are preamble and trailer added
// by whatever produced the text and are discarded untouched. Text with
// fewer than two line breaks has no embedded payload.
func ExtractPayload(text string) (string, error) {
	first := strings.IndexByte(text, '\n')
	last := strings.LastIndexByte(text, '\n')
	if first < 0 || first == last {
		return "", &ExtractionError{Reason: "text must contain at least two line breaks around the payload"}
	}
	return text[first+1 : last], nil
}
