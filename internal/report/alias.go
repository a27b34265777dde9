package report

import "strings"

// Alias maps an author name as recorded by git to a display name.
type Alias struct {
	Original string
	Alias    string
}

// AliasResolver looks up display names for authors.
type AliasResolver struct {
	aliases []Alias
}

// NewAliasResolver returns a resolver over aliases. Earlier entries win.
func NewAliasResolver(aliases []Alias) *AliasResolver {
	return &AliasResolver{aliases: aliases}
}

// Resolve returns the alias of author, or author itself when none matches.
// An exact match on the trimmed names is preferred over a case-insensitive one.
func (r *AliasResolver) Resolve(author string) string {
	if r == nil {
		return author
	}
	name := strings.TrimSpace(author)

	for _, a := range r.aliases {
		if strings.TrimSpace(a.Original) == name {
			return a.Alias
		}
	}
	for _, a := range r.aliases {
		if strings.EqualFold(strings.TrimSpace(a.Original), name) {
			return a.Alias
		}
	}
	return author
}
