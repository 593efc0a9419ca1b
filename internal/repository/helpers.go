package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 模式中的通配符
func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}
