package httpapi

import "net/http"

// queryOr returns the named query parameter's value, or def if absent.
func queryOr(r *http.Request, name, def string) string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	return v
}
