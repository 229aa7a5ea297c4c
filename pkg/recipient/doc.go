// Package recipient decides where each customer's email goes.
//
// Every folder is sent to the operator's global address unless an override
// for that folder is enabled and carries a non-empty email. Overrides live in
// a Store and are looked up at send time, so edits made during a run apply
// to folders not yet processed.
//
//	store := recipient.NewStore(cache.NewMemory[recipient.Override]())
//	_ = store.Set(ctx, "ACME", recipient.Override{Email: "fin@acme.com", UseOverride: true})
//
//	o, _ := store.Get(ctx, "ACME")
//	to := recipient.Resolve(o, "ops@ecoclean.com") // "fin@acme.com"
package recipient
