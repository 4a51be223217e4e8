// Package auth adapts directory entries to the user contract an
// authentication layer consumes, and runs the account state checks that
// gate a login.
package auth

import (
	"time"

	"github.com/lugatuic/ldapuser/entry"
)

// User is a directory backed identity. It never carries a local password:
// Password and Salt are always empty and mean "not applicable".
type User struct {
	entry *entry.Entry
}

func NewUser(e *entry.Entry) *User {
	return &User{entry: e}
}

// Entry returns the underlying directory entry.
func (u *User) Entry() *entry.Entry { return u.entry }

func (u *User) Username() string { return u.entry.Username() }
func (u *User) Roles() []string  { return u.entry.Roles() }
func (u *User) Password() string { return "" }
func (u *User) Salt() string     { return "" }

// EraseCredentials is a no-op; there is nothing sensitive held locally.
func (u *User) EraseCredentials() {}

func (u *User) IsAccountNonExpired() bool     { return u.entry.AccountNonExpired() }
func (u *User) IsAccountNonLocked() bool      { return u.entry.AccountNonLocked() }
func (u *User) IsCredentialsNonExpired() bool { return u.entry.CredentialsNonExpired() }
func (u *User) IsEnabled() bool               { return u.entry.Enabled() }

func (u *User) String() string { return u.entry.String() }

// Profile is the JSON view of a user returned to clients.
type Profile struct {
	Username              string     `json:"username"`
	DN                    string     `json:"dn,omitempty"`
	GUID                  string     `json:"guid,omitempty"`
	SID                   string     `json:"sid,omitempty"`
	Type                  string     `json:"type"`
	Roles                 []string   `json:"roles"`
	Groups                []string   `json:"groups"`
	Enabled               bool       `json:"enabled"`
	AccountNonLocked      bool       `json:"accountNonLocked"`
	AccountNonExpired     bool       `json:"accountNonExpired"`
	CredentialsNonExpired bool       `json:"credentialsNonExpired"`
	ExpiresAt             *time.Time `json:"expiresAt,omitempty"`
}

func (u *User) Profile() Profile {
	e := u.entry
	p := Profile{
		Username:              e.Username(),
		DN:                    e.DN(),
		GUID:                  e.GUID(),
		SID:                   e.Get(entry.AttrSID).String(),
		Type:                  e.Type(),
		Roles:                 e.Roles(),
		Groups:                e.GroupNames(),
		Enabled:               e.Enabled(),
		AccountNonLocked:      e.AccountNonLocked(),
		AccountNonExpired:     e.AccountNonExpired(),
		CredentialsNonExpired: e.CredentialsNonExpired(),
	}
	// encoding/json only handles years 0 through 9999.
	if t, ok := e.Get(entry.AttrAccountExpirationDate).AsTime(); ok && t.Year() >= 0 && t.Year() <= 9999 {
		p.ExpiresAt = &t
	}
	return p
}
