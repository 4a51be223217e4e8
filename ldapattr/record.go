package ldapattr

import (
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// Record is the JSON shape of one search result as a directory client
// forwards it.
type Record struct {
	DN         string              `json:"dn"`
	Attributes map[string][]string `json:"attributes"`
}

// Validate checks that the record names a parseable DN.
func (r Record) Validate() error {
	if r.DN == "" {
		return errors.New("dn is required")
	}
	if _, err := ldap.ParseDN(r.DN); err != nil {
		return fmt.Errorf("invalid dn %q: %w", r.DN, err)
	}
	return nil
}

// LDAPEntry builds the go-ldap representation of r.
func (r Record) LDAPEntry() *ldap.Entry {
	return ldap.NewEntry(r.DN, r.Attributes)
}
