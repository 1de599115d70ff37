package amatino

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/s0up4200/amatino/api"
)

const (
	userPath     = "/users"
	userListPath = "/users/list"
	userKey      = "user_id"
)

// User is a person or program that produces and consumes Amatino data.
type User struct {
	ID        int64
	Email     string
	Name      string
	Handle    string
	AvatarURL string
}

// UserList is a page of the users the session's user is billed for.
// Users managed through the billing dashboard are not listed.
type UserList struct {
	Page          int
	NumberOfPages int
	GeneratedTime time.Time
	State         State
	Users         []User
}

// HasMorePages reports whether pages after this one exist.
func (l UserList) HasMorePages() bool {
	return l.Page < l.NumberOfPages
}

// RetrieveUser fetches the user with id.
func (c *Client) RetrieveUser(ctx context.Context, id int64) (User, error) {
	params := api.NewParameters("", api.IntTarget(userKey, id))
	resp, err := c.call(ctx, api.MethodGet, userPath, nil, params)
	if err != nil {
		return User{}, err
	}
	return api.Deserialise(resp, func(data json.RawMessage) (User, error) {
		return firstOrObject(data, decodeUser)
	})
}

// RetrieveCurrentUser fetches the user that owns the client's session.
func (c *Client) RetrieveCurrentUser(ctx context.Context) (User, error) {
	return c.RetrieveUser(ctx, c.session.UserID())
}

// ListUsers fetches one page of users in state. A page below 1 means the
// first.
func (c *Client) ListUsers(ctx context.Context, state State, page int) (UserList, error) {
	if state == "" {
		state = StateAll
	}
	if !state.Valid() {
		return UserList{}, fmt.Errorf("%w: state %q", ErrInvalidArgument, state)
	}
	if page < 1 {
		page = 1
	}
	params := api.NewParameters("",
		api.NewTarget("state", string(state)),
		api.NewTarget("page", strconv.Itoa(page)),
	)
	resp, err := c.call(ctx, api.MethodGet, userListPath, nil, params)
	if err != nil {
		return UserList{}, err
	}
	return api.Deserialise(resp, decodeUserList)
}

// NextUserPage fetches the page after l, or nil on the last page.
func (c *Client) NextUserPage(ctx context.Context, l UserList) (*UserList, error) {
	if !l.HasMorePages() {
		return nil, nil
	}
	next, err := c.ListUsers(ctx, l.State, l.Page+1)
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func decodeUser(data json.RawMessage) (User, error) {
	obj, err := api.AsObject(data)
	if err != nil {
		return User{}, err
	}
	var u User
	var email, name, handle, avatar *string
	err = requireAll(obj,
		field{userKey, &u.ID},
		field{"email", &email},
		field{"name", &name},
		field{"handle", &handle},
		field{"avatar_url", &avatar},
	)
	if err != nil {
		return User{}, err
	}
	u.Email = derefString(email)
	u.Name = derefString(name)
	u.Handle = derefString(handle)
	u.AvatarURL = derefString(avatar)
	return u, nil
}

func decodeUserList(data json.RawMessage) (UserList, error) {
	obj, err := api.AsObject(data)
	if err != nil {
		return UserList{}, err
	}
	var l UserList
	var generated api.Time
	var users json.RawMessage
	err = requireAll(obj,
		field{"page", &l.Page},
		field{"number_of_pages", &l.NumberOfPages},
		field{"generated_time", &generated},
		field{"state", &l.State},
		field{"users", &users},
	)
	if err != nil {
		return UserList{}, err
	}
	if !l.State.Valid() {
		return UserList{}, &api.UnexpectedResponseTypeError{Expected: "user list state", Actual: fmt.Sprintf("%q", l.State)}
	}
	if l.Users, err = api.DecodeOptionalMany(users, decodeUser, true); err != nil {
		return UserList{}, err
	}
	l.GeneratedTime = generated.Time
	return l, nil
}
