package malicious

import (
	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/sharing"
)

// UnauthorizedDowngrade is returned when code attempts to extract a
// malicious share's plaintext
// x-component without going through an authorized downgrade site (§4.3,
// §7 point 3). It does not corrupt correctness on its own, but violates the
// malicious-security proof, so the type system routes every extraction
// through an explicit acknowledgment.
type UnauthorizedDowngrade struct {
	Reason string
}

func (e UnauthorizedDowngrade) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "downgrade attempted outside an authorized site"
	}
	return "malicious: unauthorized downgrade: " + reason
}

// AuthorizationToken is held only by code that has explicitly acknowledged
// it is an authorized downgrade site (e.g. the tail of a malicious-secure
// reshare). Its zero value is unusable: callers must obtain one through
// Acknowledge, which exists precisely so the acknowledgment shows up at the
// call site during review.
type AuthorizationToken struct {
	acknowledged bool
}

// Acknowledge mints an AuthorizationToken. Call it only at a site that has
// verified it is permitted to downgrade a malicious share to its
// semi-honest replicated share — e.g. immediately after a reshare protocol
// has checked consistency of the r-component.
func Acknowledge(reason string) AuthorizationToken {
	_ = reason // documents intent at the call site; not otherwise checked
	return AuthorizationToken{acknowledged: true}
}

// Downgrade extracts the semi-honest replicated x-component from a
// malicious share. It requires an AuthorizationToken minted via Acknowledge,
// so the only way to obtain the underlying share is to explicitly assert,
// at the call site, that this is a sanctioned extraction point.
func Downgrade[E field.Element[E]](m Share[E], tok AuthorizationToken) (sharing.Replicated[E], error) {
	if !tok.acknowledged {
		return sharing.Replicated[E]{}, UnauthorizedDowngrade{}
	}
	return m.X, nil
}
