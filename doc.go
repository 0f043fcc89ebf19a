/*
Package calcchain implements guided calculator chains for a health and fitness
calculator site.

A chain is an ordered list of calculators (BMI, body fat, TDEE, ...). While a
visitor walks a chain, calcchain remembers which step they are on, which steps
they finished and the answers collected so far, so later calculators can be
pre-filled and the "continue" button knows where to go next.

# Usage

	svc, err := calcchain.New()
	if err != nil {
		log.Fatal(err)
	}

	store := svc.Session("visitor-cookie-id")
	next, ok := store.Start(ctx, "fitness-baseline") // "bmi", true

	// ...the BMI page computes its result...
	next, ok = store.Advance(ctx, "bmi", map[string]any{"age": 30, "weight": 80})
	if !ok {
		// Either the chain finished or the page was not the current step:
		// route to the results overview / standalone mode.
	}

Every failure degrades to "no chain in progress"; nothing is returned as an
error, because the calculators always work standalone.

# Persistence

The state is stored through ports.KeyValueStore: in memory, in Redis
(pkg/adapters/redis) or in local files. Middlewares in
pkg/persistence/middleware namespace a shared backend per session and encrypt
records at rest.
*/
package calcchain
