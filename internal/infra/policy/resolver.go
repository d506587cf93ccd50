package policy

import (
	"strings"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

const minSiteToken = 3

// Resolver merges the default password policy with category and per-site
// overrides into a single compliant spec. It is a pure function over the
// injected tables: no error states, always a usable result.
type Resolver struct {
	tables Tables
	base   domain.PasswordPolicySpec
}

// NewResolver builds a resolver over the supplied tables.
func NewResolver(tables Tables) *Resolver {
	return &Resolver{
		tables: tables,
		base:   domain.DefaultPasswordPolicy(),
	}
}

// Resolve picks the policy for a site. Resolution order, first match wins:
// site table by domain (exact or suffix, longest key), site table by service
// token, category table, compiled-in default. The returned spec is always
// normalized.
func (r *Resolver) Resolve(service, url, category string) domain.PasswordPolicySpec {
	host := DomainFromURL(url)

	if key, override, ok := r.matchDomain(host); ok {
		return r.tagged(override, "site:"+key)
	}

	if key, override, ok := r.matchServiceToken(service); ok {
		return r.tagged(override, "site:"+key)
	}

	cat := domain.ParseCategory(category)
	if strings.TrimSpace(category) == "" {
		cat = domain.ClassifyCategory(host, service)
	}
	if override, ok := r.tables.Categories[cat.String()]; ok {
		return r.tagged(override, "category:"+cat.String())
	}

	spec := r.base
	spec.Source = "default"
	return spec.Normalized()
}

func (r *Resolver) tagged(override SpecOverride, source string) domain.PasswordPolicySpec {
	spec := override.Apply(r.base)
	spec.Source = source
	return spec.Normalized()
}

// matchDomain finds the site entry whose domain key equals the host or is a
// parent suffix of it. The longest key wins on tie.
func (r *Resolver) matchDomain(host string) (string, SpecOverride, bool) {
	if host == "" {
		return "", SpecOverride{}, false
	}

	var (
		bestKey string
		best    SpecOverride
		found   bool
	)
	for key, override := range r.tables.Sites {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if host != key && !strings.HasSuffix(host, "."+key) {
			continue
		}
		if !found || len(key) > len(bestKey) {
			bestKey, best, found = key, override, true
		}
	}
	return bestKey, best, found
}

// matchServiceToken falls back to matching the first label of each site key
// (three characters or longer) as a substring of the lowercased service
// name. The longest token wins.
func (r *Resolver) matchServiceToken(service string) (string, SpecOverride, bool) {
	name := strings.ToLower(strings.TrimSpace(service))
	if name == "" {
		return "", SpecOverride{}, false
	}

	var (
		bestKey   string
		bestToken string
		best      SpecOverride
		found     bool
	)
	for key, override := range r.tables.Sites {
		key = strings.ToLower(strings.TrimSpace(key))
		token := key
		if idx := strings.Index(key, "."); idx > 0 {
			token = key[:idx]
		}
		if len(token) < minSiteToken || !strings.Contains(name, token) {
			continue
		}
		if !found || len(token) > len(bestToken) {
			bestKey, bestToken, best, found = key, token, override, true
		}
	}
	return bestKey, best, found
}
