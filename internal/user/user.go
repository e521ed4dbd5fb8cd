package user

// User is the single record type managed by the service.  A zero ID
// means the record has not been persisted yet; stores assign the ID on
// the first Save and it never changes afterwards.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsNew reports whether u has not been assigned an identifier yet.
func (u *User) IsNew() bool {
	return u.ID == 0
}

// Apply overwrites the mutable fields of u with the values in details.
// The identifier of u is left untouched.
func (u *User) Apply(details *User) {
	u.Name = details.Name
	u.Email = details.Email
}

// Clone returns a copy of u that shares no memory with it.
func (u *User) Clone() *User {
	c := *u
	return &c
}
