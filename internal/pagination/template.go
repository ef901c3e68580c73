package pagination

import "strings"

// Token is a placeholder name recognised in header and footer templates.
type Token string

const (
	TokenTitle      Token = "title"
	TokenPageNumber Token = "pageNumber"
	TokenTotalPages Token = "totalPages"
)

// Interpolate replaces every {token} in template with its value. Values are
// inserted verbatim and never re-scanned; braces around unknown names are
// left as they are.
func Interpolate(template string, values map[Token]string) string {
	if !strings.Contains(template, "{") {
		return template
	}

	var sb strings.Builder
	sb.Grow(len(template))
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:open])
		rest = rest[open:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			sb.WriteString(rest)
			break
		}
		if v, ok := values[Token(rest[1:end])]; ok {
			sb.WriteString(v)
			rest = rest[end+1:]
			continue
		}
		sb.WriteByte('{')
		rest = rest[1:]
	}
	return sb.String()
}
