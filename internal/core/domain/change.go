package domain

// AccountChange is the pending change set for one create or update of an
// Account. A nil field is absent from the change and leaves the stored value
// untouched.
//
// Values are treated as immutable: code that needs a different change builds
// a new AccountChange instead of writing through the pointers.
type AccountChange struct {
	Email        *string
	Password     *string // plaintext; cleared by hashing before persistence
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Barcode      *string
	House        *string
	RoleName     *string // input boundary; replaced by RoleID on resolution
	RoleID       *uint
	IsValid      *bool
}

// Fields lists the names of the attributes present in the change. Values are
// left out so the result is safe to log and audit.
func (c AccountChange) Fields() []string {
	var out []string
	add := func(present bool, name string) {
		if present {
			out = append(out, name)
		}
	}
	add(c.Email != nil, "email")
	add(c.Password != nil || c.PasswordHash != nil, "password")
	add(c.FirstName != nil, "first_name")
	add(c.LastName != nil, "last_name")
	add(c.Barcode != nil, "barcode")
	add(c.House != nil, "house")
	add(c.RoleName != nil || c.RoleID != nil, "role")
	return out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
