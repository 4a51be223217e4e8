package entry

import "time"

// Canonical attribute names shared by every directory schema.
const (
	AttrDN                    = "dn"
	AttrUsername              = "username"
	AttrGUID                  = "guid"
	AttrSID                   = "sid"
	AttrGroups                = "groups"
	AttrEnabled               = "enabled"
	AttrLocked                = "locked"
	AttrPasswordMustChange    = "passwordMustChange"
	AttrAccountExpirationDate = "accountExpirationDate"
)

// Username returns the username attribute rendered as a string.
func (e *Entry) Username() string {
	return e.Get(AttrUsername).String()
}

func (e *Entry) SetUsername(username string) *Entry {
	return e.Set(AttrUsername, String(username))
}

// GUID returns the directory assigned globally unique identifier.
func (e *Entry) GUID() string {
	return e.Get(AttrGUID).String()
}

func (e *Entry) SetGUID(guid string) *Entry {
	return e.Set(AttrGUID, String(guid))
}

// DN returns the distinguished name, if the entry carries one.
func (e *Entry) DN() string {
	return e.Get(AttrDN).String()
}

// Groups returns the group membership values. It is empty, never nil, when
// the entry has no groups attribute.
func (e *Entry) Groups() []Value {
	return e.Get(AttrGroups).List()
}

// GroupNames returns Groups rendered as strings.
func (e *Entry) GroupNames() []string {
	return e.Get(AttrGroups).Strings()
}

// AccountNonExpired reports whether the account is still valid now.
func (e *Entry) AccountNonExpired() bool {
	return e.AccountNonExpiredAt(time.Now())
}

// AccountNonExpiredAt reports whether the account is valid at now. An absent
// expiration date or a stored false never expires; a timestamp expires once
// now reaches it; any other value is coerced with Truthy.
func (e *Entry) AccountNonExpiredAt(now time.Time) bool {
	v, ok := e.Lookup(AttrAccountExpirationDate)
	if !ok {
		return true
	}
	if b, isBool := v.AsBool(); isBool && !b {
		return true
	}
	if t, isTime := v.AsTime(); isTime {
		return t.After(now)
	}
	return v.Truthy()
}

// AccountNonLocked is true unless the locked attribute is set and truthy.
func (e *Entry) AccountNonLocked() bool {
	v, ok := e.Lookup(AttrLocked)
	if !ok {
		return true
	}
	return !v.Truthy()
}

// CredentialsNonExpired is true unless passwordMustChange is set and truthy.
func (e *Entry) CredentialsNonExpired() bool {
	v, ok := e.Lookup(AttrPasswordMustChange)
	if !ok {
		return true
	}
	return !v.Truthy()
}

// Enabled is true when the enabled attribute is absent, otherwise its value.
func (e *Entry) Enabled() bool {
	v, ok := e.Lookup(AttrEnabled)
	if !ok {
		return true
	}
	return v.Truthy()
}

// String returns the username.
func (e *Entry) String() string {
	return e.Username()
}
