package db

import "strings"

// LikeEscape is the escape character paired with EscapeLike patterns.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralizes LIKE wildcards in user input. Use with
// "LIKE ? ESCAPE '\'".
func EscapeLike(value string) string {
	return likeReplacer.Replace(value)
}

// ContainsPattern lowercases value and wraps the escaped text for a substring match.
func ContainsPattern(value string) string {
	return "%" + EscapeLike(strings.ToLower(value)) + "%"
}
