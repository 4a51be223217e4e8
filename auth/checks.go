package auth

import "errors"

// Account status errors. Pre-auth errors are raised before credentials are
// looked at, ErrCredentialsExpired only after they were accepted.
var (
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAccountExpired     = errors.New("account has expired")
	ErrCredentialsExpired = errors.New("credentials have expired")
)

// CheckPreAuth rejects accounts that may not log in at all.
func CheckPreAuth(u *User) error {
	switch {
	case !u.IsAccountNonLocked():
		return ErrAccountLocked
	case !u.IsEnabled():
		return ErrAccountDisabled
	case !u.IsAccountNonExpired():
		return ErrAccountExpired
	}
	return nil
}

// CheckPostAuth rejects accounts whose password must be changed first.
func CheckPostAuth(u *User) error {
	if !u.IsCredentialsNonExpired() {
		return ErrCredentialsExpired
	}
	return nil
}

// IsStatusError reports whether err is one of the account status errors.
func IsStatusError(err error) bool {
	return errors.Is(err, ErrAccountLocked) ||
		errors.Is(err, ErrAccountDisabled) ||
		errors.Is(err, ErrAccountExpired) ||
		errors.Is(err, ErrCredentialsExpired)
}
