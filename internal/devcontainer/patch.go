package devcontainer

import (
	"bytes"
	"fmt"
	"sort"
)

// fieldUpdate 针对顶层对象成员的一次修改
type fieldUpdate struct {
	key    string
	value  []byte // 已编码的 JSON 值，remove=true 时忽略
	remove bool
}

// member 顶层成员在原始字节中的位置
type member struct {
	key        string
	keyStart   int
	valueStart int
	valueEnd   int
}

type splice struct {
	start int
	end   int
	repl  []byte
}

func skipSpace(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}

func scanString(b []byte, i int) (end int, raw []byte, ok bool) {
	if i >= len(b) || b[i] != '"' {
		return 0, nil, false
	}
	start := i
	i++
	for i < len(b) {
		switch b[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1, b[start : i+1], true
		default:
			i++
		}
	}
	return 0, nil, false
}

func scanBalanced(b []byte, i int, open, close byte) (end int, ok bool) {
	depth := 0
	inString := false
	escape := false
	for ; i < len(b); i++ {
		c := b[i]
		if inString {
			switch {
			case escape:
				escape = false
			case c == '\\':
				escape = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func scanValue(b []byte, i int) (end int, ok bool) {
	i = skipSpace(b, i)
	if i >= len(b) {
		return 0, false
	}
	switch c := b[i]; {
	case c == '"':
		end, _, ok = scanString(b, i)
		return end, ok
	case c == '{':
		return scanBalanced(b, i, '{', '}')
	case c == '[':
		return scanBalanced(b, i, '[', ']')
	case bytes.HasPrefix(b[i:], []byte("true")):
		return i + 4, true
	case bytes.HasPrefix(b[i:], []byte("false")):
		return i + 5, true
	case bytes.HasPrefix(b[i:], []byte("null")):
		return i + 4, true
	case c == '-' || (c >= '0' && c <= '9'):
		j := i + 1
		for j < len(b) {
			c := b[j]
			if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
				j++
				continue
			}
			break
		}
		return j, true
	}
	return 0, false
}

// topLevelMembers 解析顶层对象的成员位置（不解码值）
func topLevelMembers(b []byte) (objStart, objEnd int, members []member, ok bool) {
	objStart = skipSpace(b, 0)
	if objStart >= len(b) || b[objStart] != '{' {
		return 0, 0, nil, false
	}
	objEnd, ok = scanValue(b, objStart)
	if !ok {
		return 0, 0, nil, false
	}

	i := objStart + 1
	for {
		i = skipSpace(b, i)
		if i >= objEnd {
			return 0, 0, nil, false
		}
		if b[i] == '}' {
			break
		}
		if b[i] == ',' {
			i++
			continue
		}

		keyStart := i
		keyEnd, rawKey, ok := scanString(b, i)
		if !ok {
			return 0, 0, nil, false
		}
		i = skipSpace(b, keyEnd)
		if i >= objEnd || b[i] != ':' {
			return 0, 0, nil, false
		}
		valueStart := skipSpace(b, i+1)
		valueEnd, ok := scanValue(b, valueStart)
		if !ok {
			return 0, 0, nil, false
		}
		i = valueEnd

		members = append(members, member{
			key:        string(bytes.Trim(rawKey, `"`)),
			keyStart:   keyStart,
			valueStart: valueStart,
			valueEnd:   valueEnd,
		})
	}

	return objStart, objEnd, members, true
}

func applySplices(b []byte, splices []splice) []byte {
	sort.Slice(splices, func(i, j int) bool {
		return splices[i].start > splices[j].start
	})
	out := append([]byte(nil), b...)
	for _, s := range splices {
		out = append(out[:s.start], append(append([]byte(nil), s.repl...), out[s.end:]...)...)
	}
	return out
}

// patchObject 修改顶层对象：已有成员原地替换或删除，新成员追加到末尾，
// 其余成员及其顺序保持不变
func patchObject(b []byte, updates []fieldUpdate) ([]byte, error) {
	objStart, objEnd, members, ok := topLevelMembers(b)
	if !ok {
		return nil, fmt.Errorf("invalid top-level json object")
	}
	byKey := make(map[string]member, len(members))
	for _, m := range members {
		byKey[m.key] = m
	}

	var splices []splice
	for _, u := range updates {
		m, exists := byKey[u.key]
		if !exists {
			continue
		}
		if !u.remove {
			splices = append(splices, splice{start: m.valueStart, end: m.valueEnd, repl: u.value})
			continue
		}

		// 删除成员及其后的逗号；位于末尾时改删前一个逗号
		start, end := m.keyStart, m.valueEnd
		after := skipSpace(b, end)
		if after < objEnd && b[after] == ',' {
			end = skipSpace(b, after+1)
		} else {
			before := start
			for before > objStart+1 {
				c := b[before-1]
				if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
					before--
					continue
				}
				if c == ',' {
					start = before - 1
				}
				break
			}
		}
		splices = append(splices, splice{start: start, end: end})
	}
	if len(splices) > 0 {
		b = applySplices(b, splices)
	}

	_, objEnd, members, ok = topLevelMembers(b)
	if !ok {
		return nil, fmt.Errorf("invalid json after patch")
	}
	present := make(map[string]bool, len(members))
	for _, m := range members {
		present[m.key] = true
	}

	// 插入位置：右花括号前的空白之前
	insertAt := objEnd - 1
	for insertAt > 0 {
		c := b[insertAt-1]
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			break
		}
		insertAt--
	}

	var inserts []byte
	hasMembers := len(members) > 0
	for _, u := range updates {
		if u.remove || present[u.key] {
			continue
		}
		if hasMembers {
			inserts = append(inserts, ',')
		}
		inserts = append(inserts, '"')
		inserts = append(inserts, u.key...)
		inserts = append(inserts, '"', ':')
		inserts = append(inserts, u.value...)
		hasMembers = true
		present[u.key] = true
	}
	if len(inserts) > 0 {
		b = applySplices(b, []splice{{start: insertAt, end: insertAt, repl: inserts}})
	}

	return b, nil
}
