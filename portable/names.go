package portable

import "strconv"

// Identifier converts a native name into a field identifier: letters, digits
// and underscores only, never starting with a digit.
func Identifier(name string) string {
	if len(name) == 0 {
		return "unnamed"
	}

	runes := []rune(name)
	for i, r := range runes {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_') {
			runes[i] = '_'
		}
	}
	if runes[0] >= '0' && runes[0] <= '9' {
		return "_" + string(runes)
	}
	return string(runes)
}

// uniqueName suffixes name with _1, _2, ... until it is not in taken.
func uniqueName(name string, taken map[string]int) string {
	if _, ok := taken[name]; !ok {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// exportName converts a field identifier to an exported Go field name.
func exportName(name string) string {
	runes := []rune(name)
	if runes[0] >= 'a' && runes[0] <= 'z' {
		runes[0] = runes[0] - 'a' + 'A'
	} else if runes[0] == '_' {
		runes = append([]rune{'F'}, runes...)
	}
	return string(runes)
}
