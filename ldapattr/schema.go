// Package ldapattr converts directory search results into entries.
//
// A Schema names the directory attributes that carry each canonical entry
// attribute. Two schemas ship with the package: ActiveDirectory and OpenLDAP.
// Conversion is pure; nothing here dials or binds.
package ldapattr

import (
	"fmt"
	"strings"
)

// Flavor selects how account state attributes are decoded.
type Flavor int

const (
	FlavorActiveDirectory Flavor = iota
	FlavorOpenLDAP
)

// Schema maps directory attribute names onto canonical entry attributes.
type Schema struct {
	Name   string
	Flavor Flavor

	Username string
	GUID     string
	SID      string
	Groups   string

	// Binary lists attributes that are decoded rather than copied verbatim.
	Binary []string
}

// ActiveDirectory reads sAMAccountName, objectGUID, objectSid and memberOf,
// and derives account state from userAccountControl, lockoutTime, pwdLastSet
// and accountExpires.
var ActiveDirectory = Schema{
	Name:     "ad",
	Flavor:   FlavorActiveDirectory,
	Username: "sAMAccountName",
	GUID:     "objectGUID",
	SID:      "objectSid",
	Groups:   "memberOf",
	Binary:   []string{"objectGUID", "objectSid", "unicodePwd", "thumbnailPhoto", "jpegPhoto"},
}

// OpenLDAP reads uid, entryUUID and memberOf, and derives account state from
// the password policy overlay and shadowExpire.
var OpenLDAP = Schema{
	Name:     "openldap",
	Flavor:   FlavorOpenLDAP,
	Username: "uid",
	GUID:     "entryUUID",
	Groups:   "memberOf",
	Binary:   []string{"userPassword", "jpegPhoto"},
}

// SchemaByName resolves a configured schema name.
func SchemaByName(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ad", "activedirectory", "active-directory":
		return ActiveDirectory, nil
	case "openldap", "ldap":
		return OpenLDAP, nil
	default:
		return Schema{}, fmt.Errorf("unknown directory schema %q", name)
	}
}

func (s Schema) isBinary(name string) bool {
	for _, b := range s.Binary {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}
