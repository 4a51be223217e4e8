package ldapattr

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"github.com/lugatuic/ldapuser/entry"
)

var (
	// ErrMissingUsername is returned when a user object lacks the schema's
	// username attribute.
	ErrMissingUsername = errors.New("directory entry has no username attribute")
	ErrNilEntry        = errors.New("directory entry is nil")
)

// Converter turns *ldap.Entry search results into entries.
type Converter struct {
	schema Schema
	logger *zap.Logger
}

func NewConverter(schema Schema, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{schema: schema, logger: logger}
}

func (c *Converter) Schema() Schema { return c.schema }

// Convert copies every textual attribute of src verbatim and then fills the
// canonical attributes from the schema. Canonical names win on collision.
func (c *Converter) Convert(src *ldap.Entry) (*entry.Entry, error) {
	if src == nil {
		return nil, ErrNilEntry
	}
	e := entry.New(objectType(values(src, "objectClass")))

	for _, attr := range src.Attributes {
		if c.schema.isBinary(attr.Name) {
			continue
		}
		if v, ok := textValue(attr.Values); ok {
			e.Set(attr.Name, v)
		} else {
			c.logger.Debug("ldapattr.skip_binary", zap.String("dn", src.DN), zap.String("attribute", attr.Name))
		}
	}

	if src.DN != "" {
		e.Set(entry.AttrDN, entry.String(src.DN))
	}

	username := first(values(src, c.schema.Username))
	if username == "" {
		if e.Type() == entry.TypeUser {
			return nil, ErrMissingUsername
		}
	} else {
		e.SetUsername(username)
	}

	c.identifiers(src, e)

	var groups []string
	for _, g := range values(src, c.schema.Groups) {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	if len(groups) > 0 {
		e.Set(entry.AttrGroups, entry.Strings(groups...))
	}

	switch c.schema.Flavor {
	case FlavorActiveDirectory:
		c.activeDirectoryState(src, e)
	case FlavorOpenLDAP:
		c.openLDAPState(src, e)
	}

	c.logger.Debug("ldapattr.converted",
		zap.String("dn", src.DN),
		zap.String("type", e.Type()),
		zap.String("username", e.Username()),
		zap.Int("attributes", e.Len()),
	)
	return e, nil
}

func (c *Converter) identifiers(src *ldap.Entry, e *entry.Entry) {
	if raw := rawValue(src, c.schema.GUID); len(raw) > 0 {
		guid, err := normalizeGUID(raw)
		if err != nil {
			c.logger.Warn("ldapattr.invalid_guid", zap.String("dn", src.DN), zap.Error(err))
		} else {
			e.SetGUID(guid)
		}
	}
	if raw := rawValue(src, c.schema.SID); len(raw) > 0 {
		sid, err := normalizeSID(raw)
		if err != nil {
			c.logger.Warn("ldapattr.invalid_sid", zap.String("dn", src.DN), zap.Error(err))
		} else {
			e.Set(entry.AttrSID, entry.String(sid))
		}
	}
}

func (c *Converter) activeDirectoryState(src *ldap.Entry, e *entry.Entry) {
	var (
		locked, mustChange       bool
		haveLocked, haveMustChng bool
	)

	if s := first(values(src, "userAccountControl")); s != "" {
		// AD returns the flags as a signed 32 bit integer.
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			c.logger.Warn("ldapattr.invalid_uac", zap.String("dn", src.DN), zap.String("value", s))
		} else {
			uac := UAC(uint32(n))
			e.Set(entry.AttrEnabled, entry.Bool(!uac.Disabled()))
			locked, mustChange = uac.LockedOut(), uac.PasswordExpired()
			haveLocked, haveMustChng = true, true
		}
	}

	if s := first(values(src, "lockoutTime")); s != "" {
		if ticks, err := parseFileTime(s); err == nil {
			locked = locked || ticks > 0
			haveLocked = true
		}
	}
	if s := first(values(src, "pwdLastSet")); s != "" {
		mustChange = mustChange || strings.TrimSpace(s) == "0"
		haveMustChng = true
	}

	if haveLocked {
		e.Set(entry.AttrLocked, entry.Bool(locked))
	}
	if haveMustChng {
		e.Set(entry.AttrPasswordMustChange, entry.Bool(mustChange))
	}

	if s := first(values(src, "accountExpires")); s != "" {
		s = strings.TrimSpace(s)
		if s == "0" || s == accountNeverExpires {
			e.Set(entry.AttrAccountExpirationDate, entry.Bool(false))
			return
		}
		ticks, err := parseFileTime(s)
		if err != nil {
			c.logger.Warn("ldapattr.invalid_account_expires", zap.String("dn", src.DN), zap.Error(err))
			return
		}
		e.Set(entry.AttrAccountExpirationDate, entry.Time(FileTimeToTime(ticks)))
	}
}

func (c *Converter) openLDAPState(src *ldap.Entry, e *entry.Entry) {
	if s := first(values(src, "pwdAccountLockedTime")); s != "" {
		e.Set(entry.AttrLocked, entry.Bool(true))
		if s == ppolicyPermanentLock {
			e.Set(entry.AttrEnabled, entry.Bool(false))
		}
	}

	if s := first(values(src, "pwdReset")); s != "" {
		e.Set(entry.AttrPasswordMustChange, entry.Bool(strings.EqualFold(s, "TRUE")))
	}

	if s := first(values(src, "shadowExpire")); s != "" {
		days, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		switch {
		case err != nil:
			c.logger.Warn("ldapattr.invalid_shadow_expire", zap.String("dn", src.DN), zap.String("value", s))
		case days < 0:
			e.Set(entry.AttrAccountExpirationDate, entry.Bool(false))
		default:
			t, err := shadowDaysToTime(days)
			if err != nil {
				c.logger.Warn("ldapattr.invalid_shadow_expire", zap.String("dn", src.DN), zap.String("value", s), zap.Error(err))
				return
			}
			e.Set(entry.AttrAccountExpirationDate, entry.Time(t))
		}
	}
}

func objectType(classes []string) string {
	has := func(names ...string) bool {
		for _, c := range classes {
			for _, n := range names {
				if strings.EqualFold(c, n) {
					return true
				}
			}
		}
		return false
	}
	// AD computers also carry the user class.
	switch {
	case has("computer"):
		return entry.TypeComputer
	case has("user", "person", "inetOrgPerson", "posixAccount"):
		return entry.TypeUser
	case has("group", "groupOfNames", "groupOfUniqueNames", "posixGroup"):
		return entry.TypeGroup
	case has("organizationalUnit"):
		return entry.TypeOrganizationalUnit
	default:
		return entry.TypeUnknown
	}
}

func textValue(vals []string) (entry.Value, bool) {
	for _, v := range vals {
		if !utf8.ValidString(v) {
			return entry.Value{}, false
		}
	}
	switch len(vals) {
	case 0:
		return entry.Value{}, false
	case 1:
		return entry.String(vals[0]), true
	default:
		return entry.Strings(vals...), true
	}
}

// values returns the string values of the first attribute whose name
// matches case-insensitively.
func values(src *ldap.Entry, name string) []string {
	if name == "" {
		return nil
	}
	for _, attr := range src.Attributes {
		if strings.EqualFold(attr.Name, name) {
			return attr.Values
		}
	}
	return nil
}

func rawValue(src *ldap.Entry, name string) []byte {
	if name == "" {
		return nil
	}
	for _, attr := range src.Attributes {
		if !strings.EqualFold(attr.Name, name) {
			continue
		}
		if len(attr.ByteValues) > 0 {
			return attr.ByteValues[0]
		}
		if len(attr.Values) > 0 {
			return []byte(attr.Values[0])
		}
	}
	return nil
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}
