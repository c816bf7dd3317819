// Package auth decides whether a caller may run an operation.
//
// Every protected operation declares one access.Requirement at definition time. At request time
// the caller's permission set is loaded from the role assigned to the user and checked with
// Evaluate, a pure superset test. There are no wildcards and no inheritance between access types.
//
// The guard fails closed: an unknown user, a lookup error or an expired context all yield a
// denying Decision.
//
// Example usage:
//
//	authService := auth.NewService(db, cfg.DB.QueryTimeout)
//
//	var createBrand = access.Require(access.CreateBrand)
//
//	app.Post("/api/brands",
//	    auth.Authenticate(issuer, false),
//	    auth.RequireAccess(authService, createBrand),
//	    handler,
//	)
package auth
