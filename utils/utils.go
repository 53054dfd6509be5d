package utils

import (
	"regexp"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

var snowflakeRegex = regexp.MustCompile(`^\d{17,19}$`)

// IsValidSnowflake reports whether id looks like a Discord snowflake ID.
func IsValidSnowflake(id string) bool {
	return snowflakeRegex.MatchString(id)
}
