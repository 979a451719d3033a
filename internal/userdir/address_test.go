package userdir

import (
	"context"
	"slices"
	"testing"
)

var centro = AddressKey{Street: "Av. Brasil", Neighborhood: "Centro", Zip: "11111-111"}

func TestAddresses_FlyweightScenario(t *testing.T) {
	book := NewAddresses()
	ctx := context.Background()

	a1, err := book.Get(ctx, centro)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	a2, err := book.Get(ctx, AddressKey{Street: "Av. Brasil", Neighborhood: "Centro", Zip: "11111-111"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if a1 != a2 {
		t.Fatal("equal addresses should be the same instance")
	}
	if book.Size() != 1 {
		t.Errorf("Size() = %d, want 1", book.Size())
	}

	gabriel := NewClient("Gabriel")
	gabriel.AddAddress(a1, "50", "Casa")
	joana := NewClient("Joana")
	joana.AddAddress(a2, "250A", "AP 555")

	if got, want := gabriel.Addresses(), []string{"Av. Brasil 50 Centro Casa 11111-111"}; !slices.Equal(got, want) {
		t.Errorf("Gabriel = %q, want %q", got, want)
	}
	if got, want := joana.Addresses(), []string{"Av. Brasil 250A Centro AP 555 11111-111"}; !slices.Equal(got, want) {
		t.Errorf("Joana = %q, want %q", got, want)
	}
}

func TestAddress_RenderSkipsEmptyParts(t *testing.T) {
	a := &Address{key: centro}
	if got := a.Render("10", ""); got != "Av. Brasil 10 Centro 11111-111" {
		t.Errorf("Render = %q", got)
	}
}

func TestAddress_Accessors(t *testing.T) {
	a, _ := NewAddresses().Get(context.Background(), centro)
	if a.Street() != "Av. Brasil" || a.Neighborhood() != "Centro" || a.Zip() != "11111-111" {
		t.Errorf("got %s / %s / %s", a.Street(), a.Neighborhood(), a.Zip())
	}
}
