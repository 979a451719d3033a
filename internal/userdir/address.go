package userdir

import (
	"context"
	"strings"

	"github.com/jonwraymond/lazyops/pool"
)

// AddressKey is the intrinsic state of an address.
type AddressKey struct {
	Street       string
	Neighborhood string
	Zip          string
}

// Address is a shared, immutable street address.
type Address struct {
	key AddressKey
}

// Street returns the street name.
func (a *Address) Street() string { return a.key.Street }

// Neighborhood returns the neighborhood.
func (a *Address) Neighborhood() string { return a.key.Neighborhood }

// Zip returns the postal code.
func (a *Address) Zip() string { return a.key.Zip }

// Render formats the address with a client's number and details.
func (a *Address) Render(number, details string) string {
	parts := []string{a.key.Street, number, a.key.Neighborhood, details, a.key.Zip}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Addresses is the flyweight pool of street addresses.
type Addresses struct {
	pool *pool.Pool[AddressKey, *Address]
}

// NewAddresses creates an empty address pool.
func NewAddresses(opts ...pool.Option) *Addresses {
	opts = append([]pool.Option{pool.WithName("addresses")}, opts...)
	return &Addresses{pool: pool.New[AddressKey, *Address](opts...)}
}

// Get returns the shared Address for key.
func (b *Addresses) Get(ctx context.Context, key AddressKey) (*Address, error) {
	return b.pool.GetOrCreate(ctx, key, newAddress)
}

// Size returns the number of distinct addresses.
func (b *Addresses) Size() int {
	return b.pool.Size()
}

func newAddress(_ context.Context, key AddressKey) (*Address, error) {
	return &Address{key: key}, nil
}

// Client holds per-client extrinsic address state.
type Client struct {
	Name    string
	entries []clientAddress
}

type clientAddress struct {
	addr    *Address
	number  string
	details string
}

// NewClient creates a client with no addresses.
func NewClient(name string) *Client {
	return &Client{Name: name}
}

// AddAddress attaches a shared address with this client's number and details.
func (c *Client) AddAddress(a *Address, number, details string) {
	c.entries = append(c.entries, clientAddress{addr: a, number: number, details: details})
}

// Addresses renders every attached address.
func (c *Client) Addresses() []string {
	out := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.addr.Render(e.number, e.details))
	}
	return out
}
