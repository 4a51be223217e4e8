package auth

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"github.com/lugatuic/ldapuser/ldapattr"
	"github.com/lugatuic/ldapuser/rolemap"
)

// Provider loads users from directory search results.
type Provider struct {
	converter *ldapattr.Converter
	roles     *rolemap.Mapper
	logger    *zap.Logger
}

func NewProvider(converter *ldapattr.Converter, roles *rolemap.Mapper, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{converter: converter, roles: roles, logger: logger}
}

// LoadUser converts src and assigns roles from its group membership.
func (p *Provider) LoadUser(src *ldap.Entry) (*User, error) {
	e, err := p.converter.Convert(src)
	if err != nil {
		return nil, fmt.Errorf("convert entry: %w", err)
	}
	if p.roles != nil {
		p.roles.Apply(e)
	}
	p.logger.Info("auth.user_loaded",
		zap.String("username", e.Username()),
		zap.Strings("roles", e.Roles()),
	)
	return NewUser(e), nil
}

// Authenticate loads the user and runs both account status checks. Credential
// verification happens upstream and is assumed to have succeeded.
func (p *Provider) Authenticate(src *ldap.Entry) (*User, error) {
	u, err := p.LoadUser(src)
	if err != nil {
		return nil, err
	}
	if err := CheckPreAuth(u); err != nil {
		p.logger.Info("auth.pre_auth_rejected", zap.String("username", u.Username()), zap.Error(err))
		return u, err
	}
	if err := CheckPostAuth(u); err != nil {
		p.logger.Info("auth.post_auth_rejected", zap.String("username", u.Username()), zap.Error(err))
		return u, err
	}
	return u, nil
}
