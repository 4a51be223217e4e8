package handlers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lugatuic/ldapuser/ldapattr"
)

// Attribute descriptions: a name or numeric OID, optionally with options
// such as ;binary or ;lang-en.
var validAttr = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*|[0-9]+(\.[0-9]+)+)(;[A-Za-z0-9-]+)*$`)

const maxAttributes = 512

// SanitizeRecord trims the DN and attribute names, drops attributes without
// values, and validates what is left. Values are left untouched since they
// may carry binary data.
func SanitizeRecord(r *ldapattr.Record) error {
	if r == nil {
		return fmt.Errorf("nil record")
	}
	r.DN = strings.TrimSpace(r.DN)
	if err := r.Validate(); err != nil {
		return err
	}

	if len(r.Attributes) > maxAttributes {
		return fmt.Errorf("too many attributes: %d > %d", len(r.Attributes), maxAttributes)
	}

	clean := make(map[string][]string, len(r.Attributes))
	for name, vals := range r.Attributes {
		name = strings.TrimSpace(name)
		if len(vals) == 0 {
			continue
		}
		if !validAttr.MatchString(name) {
			return fmt.Errorf("invalid attribute name %q", name)
		}
		if _, dup := clean[name]; dup {
			return fmt.Errorf("duplicate attribute %q", name)
		}
		clean[name] = vals
	}
	r.Attributes = clean
	return nil
}
