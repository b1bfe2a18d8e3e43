package internal

import (
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// listParams holds common query parameters for collection endpoints
type listParams struct {
	order  string
	expand map[string]bool
}

// parseListParams parses order and expand from the request.
// expand is a comma-separated list of relation names.
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	expand := map[string]bool{}
	for _, raw := range strings.Split(values.Get("expand"), ",") {
		if rel := strings.TrimSpace(raw); rel != "" {
			expand[rel] = true
		}
	}

	return listParams{
		order:  strings.TrimSpace(values.Get("order")),
		expand: expand,
	}
}

// buildOrderBy builds a safe ORDER BY clause using a whitelist of allowed keys.
// allowed maps incoming order keys (e.g., "name") to column identifiers,
// optionally table-qualified. Input is comma-separated; prefix with '-'
// for DESC. Returns a string starting with " ORDER BY ...".
// Defaults to " ORDER BY id ASC".
func buildOrderBy(orderParam string, allowed map[string]string) string {
	fallback := " ORDER BY " + quoteColumn(allowed["id"]) + " ASC"

	if orderParam == "" {
		return fallback
	}

	parts := strings.Split(orderParam, ",")
	clauses := make([]string, 0, len(parts))
	for _, raw := range parts {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		desc := false
		if strings.HasPrefix(s, "-") {
			desc = true
			s = strings.TrimPrefix(s, "-")
		}
		col, ok := allowed[s]
		if !ok {
			continue
		}
		if desc {
			clauses = append(clauses, quoteColumn(col)+" DESC")
		} else {
			clauses = append(clauses, quoteColumn(col)+" ASC")
		}
	}
	if len(clauses) == 0 {
		return fallback
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

// quoteColumn quotes a possibly table-qualified column identifier.
func quoteColumn(col string) string {
	if col == "" {
		col = "id"
	}
	parts := strings.Split(col, ".")
	for i := range parts {
		parts[i] = pq.QuoteIdentifier(parts[i])
	}
	return strings.Join(parts, ".")
}
