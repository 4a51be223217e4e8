package entry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/lugatuic/ldapuser/entry"
)

func TestSnapshotRoundTrip(t *testing.T) {
	is := is.New(t)
	expires := time.Date(2031, 5, 6, 7, 8, 9, 123456789, time.FixedZone("CEST", 2*60*60))

	e := entry.New(entry.TypeUser).
		SetUsername("jdoe").
		SetGUID("0d6c4a8e-2f34-4c1b-9d52-1a2b3c4d5e6f").
		Set("dn", entry.String("CN=John Doe,OU=Users,DC=example,DC=com")).
		Set("groups", entry.Strings("CN=Admins,DC=example,DC=com", "CN=Users,DC=example,DC=com")).
		Set("enabled", entry.Bool(true)).
		Set("locked", entry.Bool(false)).
		Set("badPwdCount", entry.Int(3)).
		Set("accountExpirationDate", entry.Time(expires)).
		Set("mixed", entry.List(entry.String("a"), entry.Int(1), entry.Bool(true), entry.Time(expires))).
		Set("empty", entry.List()).
		SetRoles([]string{"role_user", "role_admin"})

	data, err := e.Serialize()
	is.NoErr(err)

	restored := entry.New("")
	is.NoErr(restored.Restore(data))

	is.True(restored.Equal(e))
	is.Equal(restored.Type(), entry.TypeUser)
	is.Equal(restored.Roles(), []string{"ROLE_USER", "ROLE_ADMIN"})
	is.Equal(restored.Names(), e.Names())

	got, ok := restored.Get("accountexpirationdate").AsTime()
	is.True(ok)
	is.True(got.Equal(expires))
	is.Equal(restored.Get("mixed").Len(), 4)
	is.Equal(restored.Get("empty").Kind(), entry.KindList)
}

func TestSnapshotRoundTripFarFutureTime(t *testing.T) {
	is := is.New(t)
	// Largest accountExpires short of "never" lands in year 30828.
	far := time.Date(30828, 9, 14, 2, 48, 5, 477580600, time.UTC)
	ancient := time.Date(-200, 1, 1, 0, 0, 0, 1, time.UTC)

	e := entry.New(entry.TypeUser).
		SetUsername("jdoe").
		Set("accountExpirationDate", entry.Time(far)).
		Set("history", entry.List(entry.Time(ancient), entry.Time(far)))

	data, err := e.Serialize()
	is.NoErr(err)

	restored := entry.New("")
	is.NoErr(restored.Restore(data))
	is.True(restored.Equal(e))

	got, ok := restored.Get("accountExpirationDate").AsTime()
	is.True(ok)
	is.Equal(got.Year(), 30828)
	is.True(got.Equal(far))
}

func TestSnapshotRoundTripInvalidUTF8(t *testing.T) {
	is := is.New(t)
	const blob = "\xff\xfeab"
	e := entry.New(entry.TypeUser).
		Set("blob", entry.String(blob)).
		Set("blobs", entry.Strings("ok", blob)).
		Set("cn", entry.String("Jöhn"))

	data, err := e.Serialize()
	is.NoErr(err)

	restored := entry.New("")
	is.NoErr(restored.Restore(data))
	is.True(restored.Equal(e))

	got, ok := restored.Get("blob").AsString()
	is.True(ok)
	is.Equal(got, blob)
	is.Equal(restored.Get("blobs").Strings(), []string{"ok", blob})
	cn, _ := restored.Get("cn").AsString()
	is.Equal(cn, "Jöhn")
}

func TestRestoreOverwritesState(t *testing.T) {
	is := is.New(t)
	src := entry.New(entry.TypeGroup).Set("cn", entry.String("Admins"))
	data, err := src.MarshalBinary()
	is.NoErr(err)

	dst := entry.New(entry.TypeUser).SetUsername("someone").AddRole("ROLE_USER")
	is.NoErr(dst.UnmarshalBinary(data))

	is.Equal(dst.Type(), entry.TypeGroup)
	is.True(!dst.Has("username"))
	is.Equal(len(dst.Roles()), 0)
	is.True(dst.Equal(src))
}

func TestRestoreRejectsCorruptInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "{not json"},
		{"empty", ""},
		{"wrong version", `{"version":2,"type":"user","attributes":[],"roles":[]}`},
		{"unknown kind", `{"version":1,"type":"user","attributes":[{"name":"x","value":{"kind":"blob"}}],"roles":[]}`},
		{"missing scalar", `{"version":1,"type":"user","attributes":[{"name":"x","value":{"kind":"string"}}],"roles":[]}`},
		{"bad time", `{"version":1,"type":"user","attributes":[{"name":"x","value":{"kind":"time","time":"yesterday"}}],"roles":[]}`},
		{"time nanoseconds out of range", `{"version":1,"type":"user","attributes":[{"name":"x","value":{"kind":"time","time":{"sec":0,"nsec":1000000000}}}],"roles":[]}`},
		{"bad bytes", `{"version":1,"type":"user","attributes":[{"name":"x","value":{"kind":"string","bytes":"!!not base64"}}],"roles":[]}`},
		{"nested list", `{"version":1,"type":"user","attributes":[{"name":"x","value":{"kind":"list","list":[{"kind":"list"}]}}],"roles":[]}`},
		{"unnamed attribute", `{"version":1,"type":"user","attributes":[{"name":"","value":{"kind":"bool","bool":true}}],"roles":[]}`},
		{"absent attribute", `{"version":1,"type":"user","attributes":[{"name":"x","value":{"kind":"absent"}}],"roles":[]}`},
		{"duplicate attribute", `{"version":1,"type":"user","attributes":[{"name":"x","value":{"kind":"int","int":1}},{"name":"X","value":{"kind":"int","int":2}}],"roles":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			e := entry.New(entry.TypeUser).SetUsername("kept")

			err := e.Restore([]byte(tc.data))
			is.True(err != nil)

			var decodeErr *entry.DecodeError
			is.True(errors.As(err, &decodeErr))
			is.Equal(e.Username(), "kept") // failed restore leaves the entry untouched
		})
	}

	t.Run("version error wraps sentinel", func(t *testing.T) {
		is := is.New(t)
		err := entry.New("").Restore([]byte(`{"version":9}`))
		is.True(errors.Is(err, entry.ErrUnsupportedVersion))
	})
}
