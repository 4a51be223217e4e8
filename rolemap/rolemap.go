// Package rolemap derives authorization roles from group membership.
package rolemap

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"github.com/lugatuic/ldapuser/entry"
)

// Rule grants Role to members of any of Groups. A group identifier is either
// a full DN or a plain name matched against the group's first RDN value.
type Rule struct {
	Role   string
	Groups []string
}

type matcher struct {
	name string
	dn   *ldap.DN
}

type compiledRule struct {
	role     string
	matchers []matcher
}

// Mapper assigns roles to entries. It is immutable after New and safe for
// concurrent use.
type Mapper struct {
	defaultRole string
	rules       []compiledRule
	logger      *zap.Logger
}

// New compiles rules. defaultRole, when non-empty, is granted to everyone.
func New(defaultRole string, rules []Rule, logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Mapper{defaultRole: defaultRole, logger: logger}
	for _, r := range rules {
		cr := compiledRule{role: r.Role}
		for _, g := range r.Groups {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			cr.matchers = append(cr.matchers, newMatcher(g))
		}
		m.rules = append(m.rules, cr)
	}
	return m
}

func newMatcher(id string) matcher {
	if strings.Contains(id, "=") {
		if dn, err := ldap.ParseDN(id); err == nil && len(dn.RDNs) > 0 {
			return matcher{name: id, dn: dn}
		}
	}
	return matcher{name: id}
}

func (mt matcher) match(group string, groupDN *ldap.DN) bool {
	if mt.dn != nil {
		return groupDN != nil && mt.dn.EqualFold(groupDN)
	}
	if strings.EqualFold(mt.name, group) {
		return true
	}
	return groupDN != nil && strings.EqualFold(mt.name, firstRDNValue(groupDN))
}

func firstRDNValue(dn *ldap.DN) string {
	if len(dn.RDNs) == 0 || len(dn.RDNs[0].Attributes) == 0 {
		return ""
	}
	return dn.RDNs[0].Attributes[0].Value
}

// Roles returns the roles granted to members of groups, default role first,
// then rule order.
func (m *Mapper) Roles(groups []string) []string {
	parsed := make([]*ldap.DN, len(groups))
	for i, g := range groups {
		if dn, err := ldap.ParseDN(g); err == nil && len(dn.RDNs) > 0 {
			parsed[i] = dn
		}
	}

	var roles []string
	if m.defaultRole != "" {
		roles = append(roles, m.defaultRole)
	}
	for _, r := range m.rules {
		if m.ruleMatches(r, groups, parsed) {
			roles = append(roles, r.role)
		}
	}
	return roles
}

func (m *Mapper) ruleMatches(r compiledRule, groups []string, parsed []*ldap.DN) bool {
	for _, mt := range r.matchers {
		for i, g := range groups {
			if mt.match(g, parsed[i]) {
				return true
			}
		}
	}
	return false
}

// Apply adds the roles derived from e's groups. Existing roles are kept.
func (m *Mapper) Apply(e *entry.Entry) *entry.Entry {
	for _, role := range m.Roles(e.GroupNames()) {
		e.AddRole(role)
	}
	m.logger.Debug("rolemap.applied",
		zap.String("username", e.Username()),
		zap.Strings("roles", e.Roles()),
	)
	return e
}
