// Package reconcile compares the items the contract has produced with the rows in
// the database and the images in storage.
//
// Every system is a Source that loads the set of ids it holds. An Engine loads all
// sources concurrently into an Index, builds the union of ids, and reports per-id
// presence. Indices are cached for Spec.CacheTTL with stampede protection, so
// targeted lookups through ReconcileOne stay cheap.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(reconcile.Spec{
//	    Chain:    reconcile.ChainSource{Client: chainClient, FirstID: 1},
//	    DB:       reconcile.TableSource{DB: db, Table: "borgs"},
//	    Storage:  []reconcile.Source{reconcile.StorageSource{Client: store, Bucket: "borgs", Prefix: "live-default", Extension: ".png"}},
//	    CacheTTL: time.Minute,
//	})
//
//	// Plan repairs, then run them
//	plan, err := engine.Plan(ctx)
//	executed, err := engine.Apply(ctx, plan, executor, reconcile.Options{Confirmed: true})
package reconcile
