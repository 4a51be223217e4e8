package ldapattr

// userAccountControl flags consulted when deriving account state.
// https://learn.microsoft.com/en-us/windows/win32/adschema/a-useraccountcontrol
const (
	UACAccountDisable   uint32 = 0x00000002
	UACLockout          uint32 = 0x00000010
	UACNormalAccount    uint32 = 0x00000200
	UACDontExpirePasswd uint32 = 0x00010000
	UACPasswordExpired  uint32 = 0x00800000
)

// UAC is a decoded userAccountControl value.
type UAC uint32

func (u UAC) Disabled() bool        { return uint32(u)&UACAccountDisable != 0 }
func (u UAC) LockedOut() bool       { return uint32(u)&UACLockout != 0 }
func (u UAC) PasswordExpired() bool { return uint32(u)&UACPasswordExpired != 0 }
