package client

import (
	"context"
	"net/url"
)

// UserService handles user management operations. Admin only.
type UserService struct {
	c *Client
}

// listUsersResponse wraps the user list response.
type listUsersResponse struct {
	Users []User `json:"users"`
}

// List returns all users. Set includeInactive to also return deactivated
// accounts.
func (s *UserService) List(ctx context.Context, includeInactive bool) ([]User, error) {
	params := url.Values{}
	if includeInactive {
		params.Set("include_inactive", "true")
	}
	var resp listUsersResponse
	if err := s.c.get(ctx, "/api/v1/users", params, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// Get returns a single user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*User, error) {
	var resp User
	if err := s.c.get(ctx, "/api/v1/users/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create adds a new user.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	var resp User
	if err := s.c.post(ctx, "/api/v1/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update modifies an existing user. Nil request fields are left unchanged;
// the email is immutable.
func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*User, error) {
	var resp User
	if err := s.c.put(ctx, "/api/v1/users/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Deactivate soft-deletes a user: the row is kept, the account can no longer
// sign in and all its sessions are revoked.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/v1/users/"+url.PathEscape(id), nil, nil)
}
