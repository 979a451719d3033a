package userdir

import (
	"context"

	"github.com/jonwraymond/lazyops/facet"
)

// User is a lazy view of one directory entry.
type User struct {
	h *facet.Handle[Name, *Record]
}

// NewUser wraps an existing handle.
func NewUser(h *facet.Handle[Name, *Record]) *User {
	return &User{h: h}
}

// FirstName is known without touching the directory.
func (u *User) FirstName() string { return u.h.Identity().First }

// LastName is known without touching the directory.
func (u *User) LastName() string { return u.h.Identity().Last }

// Profile returns the user's documents.
func (u *User) Profile(ctx context.Context) (map[string]string, error) {
	return facet.GetAs[map[string]string](ctx, u.h, FacetProfile)
}

// Addresses returns the user's registered addresses.
func (u *User) Addresses(ctx context.Context) ([]map[string]any, error) {
	return facet.GetAs[[]map[string]any](ctx, u.h, FacetAddresses)
}

// Handle exposes the underlying handle for health checks and preloading.
func (u *User) Handle() *facet.Handle[Name, *Record] {
	return u.h
}

// Users hands out one shared User per name.
type Users struct {
	reg *facet.Registry[Name, *Record]
}

// NewUsers creates a user registry backed by loader.
func NewUsers(loader facet.Loader[Name, *Record], opts ...facet.RegistryOption) *Users {
	return &Users{reg: facet.NewRegistry(loader, opts...)}
}

// Get returns the shared User for name. It does not contact the directory.
func (u *Users) Get(ctx context.Context, name Name) (*User, error) {
	h, err := u.reg.Handle(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewUser(h), nil
}

// Len returns the number of users handed out.
func (u *Users) Len() int {
	return u.reg.Len()
}
