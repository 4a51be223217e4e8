package entry_test

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/lugatuic/ldapuser/entry"
)

func TestAccountNonExpired(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		value *entry.Value
		want  bool
	}{
		{"absent", nil, true},
		{"false", ptr(entry.Bool(false)), true},
		{"true", ptr(entry.Bool(true)), true},
		{"yesterday", ptr(entry.Time(now.Add(-24 * time.Hour))), false},
		{"tomorrow", ptr(entry.Time(now.Add(24 * time.Hour))), true},
		{"exactly now", ptr(entry.Time(now)), false},
		{"empty string", ptr(entry.String("")), false},
		{"non-empty string", ptr(entry.String("never")), true},
		{"zero int", ptr(entry.Int(0)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			e := entry.New(entry.TypeUser)
			if tc.value != nil {
				e.Set(entry.AttrAccountExpirationDate, *tc.value)
			}
			is.Equal(e.AccountNonExpiredAt(now), tc.want)
		})
	}

	t.Run("uses the wall clock", func(t *testing.T) {
		is := is.New(t)
		e := entry.New(entry.TypeUser)
		e.Set("accountexpirationdate", entry.Time(time.Now().Add(-time.Hour)))
		is.True(!e.AccountNonExpired())
		e.Set("AccountExpirationDate", entry.Time(time.Now().Add(time.Hour)))
		is.True(e.AccountNonExpired())
	})
}

func TestAccountStatePredicates(t *testing.T) {
	t.Run("absent attributes are permissive", func(t *testing.T) {
		is := is.New(t)
		e := entry.New(entry.TypeUser)
		is.True(e.AccountNonLocked())
		is.True(e.CredentialsNonExpired())
		is.True(e.Enabled())
	})

	t.Run("locked is negated", func(t *testing.T) {
		is := is.New(t)
		e := entry.New(entry.TypeUser).Set(entry.AttrLocked, entry.Bool(true))
		is.True(!e.AccountNonLocked())
		e.Set(entry.AttrLocked, entry.Bool(false))
		is.True(e.AccountNonLocked())
	})

	t.Run("passwordMustChange is negated", func(t *testing.T) {
		is := is.New(t)
		e := entry.New(entry.TypeUser).Set(entry.AttrPasswordMustChange, entry.Bool(true))
		is.True(!e.CredentialsNonExpired())
		e.Set(entry.AttrPasswordMustChange, entry.Bool(false))
		is.True(e.CredentialsNonExpired())
	})

	t.Run("enabled is returned directly", func(t *testing.T) {
		is := is.New(t)
		e := entry.New(entry.TypeUser).Set(entry.AttrEnabled, entry.Bool(false))
		is.True(!e.Enabled())
		e.Set(entry.AttrEnabled, entry.Bool(true))
		is.True(e.Enabled())
	})
}

func TestIdentityAccessors(t *testing.T) {
	is := is.New(t)
	e := entry.New(entry.TypeUser).
		SetUsername("jdoe").
		SetGUID("0d6c4a8e-2f34-4c1b-9d52-1a2b3c4d5e6f")

	is.Equal(e.Username(), "jdoe")
	is.Equal(e.String(), "jdoe")
	is.Equal(e.Get("USERNAME").String(), "jdoe")
	is.Equal(e.GUID(), "0d6c4a8e-2f34-4c1b-9d52-1a2b3c4d5e6f")

	e.SetGUID("")
	is.True(e.Has(entry.AttrGUID))
	is.Equal(e.GUID(), "")

	is.Equal(entry.New(entry.TypeUser).Username(), "")
}

func TestGroups(t *testing.T) {
	t.Run("absent groups is empty", func(t *testing.T) {
		is := is.New(t)
		e := entry.New(entry.TypeUser)
		is.True(e.Groups() != nil)
		is.Equal(len(e.Groups()), 0)
		is.Equal(len(e.GroupNames()), 0)
	})

	t.Run("groups are a projection of the attribute", func(t *testing.T) {
		is := is.New(t)
		e := entry.New(entry.TypeUser).Set("Groups", entry.Strings("Admins", "Users"))
		is.Equal(e.GroupNames(), []string{"Admins", "Users"})

		groups := e.Groups()
		groups[0] = entry.String("changed")
		is.Equal(e.GroupNames(), []string{"Admins", "Users"})
	})

	t.Run("single valued groups", func(t *testing.T) {
		is := is.New(t)
		e := entry.New(entry.TypeUser).Set(entry.AttrGroups, entry.String("Admins"))
		is.Equal(e.GroupNames(), []string{"Admins"})
	})
}

func ptr(v entry.Value) *entry.Value { return &v }
