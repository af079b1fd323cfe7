// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package limit_test

import (
	"context"
	"fmt"

	"vawter.tech/asyncseq"
	"vawter.tech/asyncseq/limit"
)

func Example() {
	// In general, rate-limiting should be applied inside of the
	// open-iterator limit so that a waiting Open does not consume
	// tokens.
	seq := limit.WithMaxOpen(
		limit.WithMaxRate(asyncseq.Values("a", "b", "c"), 100, 1),
		4,
	)

	// The decorators honor any cancellation scope placed around them.
	shutdown, cancel := context.WithCancel(context.Background())
	defer cancel()
	scoped := asyncseq.WithCancellation(shutdown, seq)

	got, err := asyncseq.Collect(context.Background(), scoped)
	if err != nil {
		panic(err)
	}
	fmt.Println(got)

	// Output:
	// [a b c]
}
