// Package auth provides bearer token suppliers for the hydra dispatcher.
//
//	store := auth.NewStore(token)
//	client, err := hydra.New(cfg,
//	    hydra.WithTokenSupplier(auth.NewJWTSource(store.Token).Token),
//	    hydra.WithUnauthorized(store.Clear),
//	)
//
// Static always yields one token. Store holds a token that can be swapped or
// cleared while requests are in flight. JWTSource wraps another supplier and
// withholds JWTs whose exp claim has passed, so no stale Authorization header
// is sent.
package auth
