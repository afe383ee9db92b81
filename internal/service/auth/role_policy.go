package auth

import (
	"strings"

	"github.com/inkhq/inkwell-api/internal/domain"
)

// RolePolicy decides whether a user carries the administrator role claim.
// The derivation is deliberately external and replaceable; token issuance
// only sees the resulting boolean.
type RolePolicy interface {
	IsAdmin(user *domain.User) bool
}

// EmailDomainPolicy grants the administrator role to users whose email
// address ends with a distinguished domain. An empty domain grants the
// role to nobody.
type EmailDomainPolicy struct {
	domain string
}

// NewEmailDomainPolicy creates an EmailDomainPolicy for the given domain
// (e.g. "@example.com"). A leading "@" is added if missing.
func NewEmailDomainPolicy(domain string) *EmailDomainPolicy {
	if domain != "" && !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}
	return &EmailDomainPolicy{domain: strings.ToLower(domain)}
}

// IsAdmin implements RolePolicy.
func (p *EmailDomainPolicy) IsAdmin(user *domain.User) bool {
	if p.domain == "" || user == nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(user.Email), p.domain)
}
