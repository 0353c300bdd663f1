package gmail

import (
	"strings"
)

// anyEmailQuery builds a Gmail search expression matching messages where
// any address appears in any of the from, to, cc or bcc headers.
func anyEmailQuery(emails []string) string {
	var terms []string
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		for _, field := range []string{"from", "to", "cc", "bcc"} {
			terms = append(terms, field+":"+email)
		}
	}
	if len(terms) == 0 {
		return ""
	}
	// Braces are Gmail's OR group.
	return "{" + strings.Join(terms, " ") + "}"
}

// buildQuery combines the address filter with the free-form query.
func buildQuery(q MessageQuery) string {
	parts := make([]string, 0, 2)
	if addresses := anyEmailQuery(q.AnyEmail); addresses != "" {
		parts = append(parts, addresses)
	}
	if extra := strings.TrimSpace(q.Query); extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, " ")
}
