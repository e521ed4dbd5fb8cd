package usersv1

// Request fields are pointers so that a missing field can be told apart
// from a zero value.

type User struct {
	Id    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) GetId() int64 {
	if u == nil {
		return 0
	}
	return u.Id
}

func (u *User) GetName() string {
	if u == nil {
		return ""
	}
	return u.Name
}

func (u *User) GetEmail() string {
	if u == nil {
		return ""
	}
	return u.Email
}

type Empty struct{}

type GetUserRequest struct {
	Id *int64 `json:"id,omitempty"`
}

type CreateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type UpdateUserRequest struct {
	Id    *int64  `json:"id,omitempty"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type DeleteUserRequest struct {
	Id *int64 `json:"id,omitempty"`
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
