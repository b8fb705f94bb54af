package formula

import "strings"

// Tokenize splits formula text into evaluator tokens. Numbers keep their
// fraction and exponent, letter+digit runs become upper-cased labels, and
// every other non-space character is a token of its own.
func Tokenize(text string) []string {
	var tokens []string
	for pos := 0; pos < len(text); {
		c := text[pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			pos++
		case isDigit(c) || c == '.':
			end := scanNumber(text, pos)
			tokens = append(tokens, text[pos:end])
			pos = end
		case isLetter(c):
			end := pos
			for end < len(text) && isLetter(text[end]) {
				end++
			}
			for end < len(text) && isDigit(text[end]) {
				end++
			}
			tokens = append(tokens, strings.ToUpper(text[pos:end]))
			pos = end
		default:
			tokens = append(tokens, text[pos:pos+1])
			pos++
		}
	}
	return tokens
}

// scanNumber returns the end of the numeric literal starting at start.
// A second dot is swallowed so "1.2.3" stays one (invalid) token.
func scanNumber(s string, start int) int {
	j := start
	seenE := false
	for j < len(s) {
		c := s[j]
		switch {
		case isDigit(c), c == '.' && !seenE:
			j++
		case (c == 'e' || c == 'E') && !seenE && j+1 < len(s) && (isDigit(s[j+1]) || s[j+1] == '+' || s[j+1] == '-'):
			seenE = true
			j++
			if s[j] == '+' || s[j] == '-' {
				j++
			}
		default:
			return j
		}
	}
	return j
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
