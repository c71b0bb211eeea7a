package services

import (
	"context"
	"net"
	"strings"

	"github.com/rs/zerolog/log"
)

// DomainVerifier checks whether an email address's domain can plausibly
// receive mail. This is a best-effort liveness check, not a guarantee of
// deliverability.
type DomainVerifier interface {
	HasMailExchanger(ctx context.Context, email string) bool
}

// MXVerifier resolves the domain's mail-exchange records through the
// system resolver.
type MXVerifier struct {
	resolver *net.Resolver
}

func NewMXVerifier() *MXVerifier {
	return &MXVerifier{resolver: net.DefaultResolver}
}

// HasMailExchanger reports whether the address's domain has at least one MX
// record. Resolution errors count as "no records".
func (v *MXVerifier) HasMailExchanger(ctx context.Context, email string) bool {
	_, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return false
	}

	records, err := v.resolver.LookupMX(ctx, domain)
	if err != nil {
		log.Debug().Err(err).Str("domain", domain).Msg("MX lookup failed")
		return false
	}
	return len(records) > 0
}
