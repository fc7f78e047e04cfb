package projection

import "strings"

// Matches reports whether u passes both the facets and the lowercased query.
func Matches(u *User, facets *Facets, query string) bool {
	if !facets.Accepts(u) {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.searchText()), query)
}

func Filter(users []User, facets *Facets, query string) []User {
	query = strings.ToLower(query)
	out := make([]User, 0, len(users))
	for i := range users {
		if Matches(&users[i], facets, query) {
			out = append(out, users[i])
		}
	}
	return out
}

// Paginate returns page (1-based) of users. Pages past the end are empty.
func Paginate(users []User, page, size int) []User {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return []User{}
	}
	start := (page - 1) * size
	if start >= len(users) {
		return []User{}
	}
	end := min(start+size, len(users))
	return users[start:end]
}

func TotalPages(n, size int) int {
	if size < 1 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
