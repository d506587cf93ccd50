package domain

import "strings"

// Keyword tables driving category classification. Matching is substring
// based over the combined domain and service label, mirroring how household
// imports name their accounts.
var (
	emailKeywords     = []string{"gmail", "outlook", "yahoo", "proton", "mail", "email"}
	bankingKeywords   = []string{"bank", "chase", "wellsfargo", "capitalone", "paypal", "amex"}
	socialKeywords    = []string{"facebook", "instagram", "x.com", "twitter", "reddit", "tiktok", "snapchat"}
	developerKeywords = []string{"github", "gitlab", "bitbucket", "aws", "azure", "cloudflare"}
)

// ClassifyCategory maps a site domain and service name to a priority
// category, defaulting to CategoryOther.
func ClassifyCategory(siteDomain, service string) Category {
	label := strings.ToLower(siteDomain + " " + service)
	switch {
	case containsAny(label, emailKeywords):
		return CategoryEmail
	case containsAny(label, bankingKeywords):
		return CategoryBanking
	case containsAny(label, socialKeywords):
		return CategorySocial
	case containsAny(label, developerKeywords):
		return CategoryDeveloper
	default:
		return CategoryOther
	}
}

func containsAny(label string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(label, token) {
			return true
		}
	}
	return false
}
