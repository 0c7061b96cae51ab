package services

import "regexp"

var (
	// stops at any Unicode whitespace
	urlRegex     = regexp.MustCompile(`https?://[^\s\v\p{Z}\x{FEFF}]+`)
	addressRegex = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)
)

// ExtractURL returns the first http(s) URL in text. Further URLs are ignored.
func ExtractURL(text string) (string, bool) {
	m := urlRegex.FindString(text)
	return m, m != ""
}

// ExtractContractAddress returns the first 0x-prefixed 40 hex digit address in text.
// Longer hex runs (e.g. transaction hashes) yield their first 42 characters.
func ExtractContractAddress(text string) (string, bool) {
	m := addressRegex.FindString(text)
	return m, m != ""
}

// fragments holds the pieces of a transaction that category passes scope to
type fragments struct {
	raw     string
	url     string
	address string
}

func extractFragments(text string) fragments {
	f := fragments{raw: text}
	if u, ok := ExtractURL(text); ok {
		f.url = u
	}
	if a, ok := ExtractContractAddress(text); ok {
		f.address = a
	}
	return f
}
