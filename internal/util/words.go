// ABOUTME: Word counting for chunk accounting and shortfall checks
// ABOUTME: Whitespace tokenization; precision beyond that is not needed
package util

import "strings"

// CountWords counts whitespace-separated tokens in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}
