package utils

// CountTokens estimates the number of tokens in the given text using the
// rough 1 token ~= 4 characters heuristic. Non-empty text is at least 1 token.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}
