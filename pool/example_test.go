package pool_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/lazyops/pool"
)

type Address struct {
	Street string
	Number int
}

func ExamplePool_GetOrCreate() {
	addresses := pool.New[Address, *Address](pool.WithName("addresses"))
	ctx := context.Background()

	build := func(_ context.Context, k Address) (*Address, error) {
		a := k
		return &a, nil
	}

	a, _ := addresses.GetOrCreate(ctx, Address{"Av. Brasil", 500}, build)
	b, _ := addresses.GetOrCreate(ctx, Address{"Av. Brasil", 500}, build)

	fmt.Println(a == b)
	fmt.Println(addresses.Size())
	// Output:
	// true
	// 1
}
