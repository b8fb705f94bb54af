package grid

import (
	"strconv"
	"strings"
)

// ColToName: 0 -> A, 25 -> Z, 26 -> AA and so on
func ColToName(col int) string {
	if col < 0 {
		return "?"
	}
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// NameToCol is the inverse of ColToName. Letters are case-insensitive.
func NameToCol(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	col := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isLetter(c) {
			return 0, false
		}
		col = col*26 + int(upper(c)-'A') + 1
	}
	return col - 1, true
}

// Label builds a cell label from 0-based row and col: (0, 0) -> "A1".
func Label(row, col int) string {
	return ColToName(col) + strconv.Itoa(row+1)
}

// ParseCellRef parses names like A1, AA10 returning 0-based (row, col).
// Accepts sheet prefixes like Sheet!A1, lower case letters and $ signs.
func ParseCellRef(name string) (int, int, bool) {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndex(name, "!"); idx != -1 {
		name = strings.TrimSpace(name[idx+1:])
	}
	name = strings.ReplaceAll(name, "$", "")
	return split(name)
}

// IsLabel reports whether token is a canonical cell label: one or more
// upper-case letters followed by a row number starting at 1.
func IsLabel(token string) bool {
	i := 0
	for i < len(token) && token[i] >= 'A' && token[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(token) || token[i] == '0' {
		return false
	}
	for j := i; j < len(token); j++ {
		if !isDigit(token[j]) {
			return false
		}
	}
	return true
}

// Normalize returns the canonical label for a lenient reference, so "$b$3"
// becomes "B3".
func Normalize(name string) (string, bool) {
	r, c, ok := ParseCellRef(name)
	if !ok {
		return "", false
	}
	return Label(r, c), true
}

func split(name string) (int, int, bool) {
	i := 0
	for i < len(name) && isLetter(name[i]) {
		i++
	}
	if i == 0 || i >= len(name) {
		return 0, 0, false
	}
	col, ok := NameToCol(name[:i])
	if !ok {
		return 0, 0, false
	}
	for j := i; j < len(name); j++ {
		if !isDigit(name[j]) {
			return 0, 0, false
		}
	}
	rowNum, err := strconv.Atoi(name[i:])
	if err != nil || rowNum < 1 {
		return 0, 0, false
	}
	return rowNum - 1, col, true
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
