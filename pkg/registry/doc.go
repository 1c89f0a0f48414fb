// Package registry fetches available package versions from JSR and npm.
//
// # Overview
//
// [Resolver] is the entry point. It is constructed with an explicit
// [cache.Cache] and TTL, so callers decide where responses live and how
// stale they may get; there is no hidden module-level state. Responses are
// cached per (registry, package) and [Resolver.ClearCache] drops exactly
// the entries this resolver wrote.
//
//	res := registry.NewResolver(registry.Config{Cache: fileCache})
//	versions, err := res.Versions(ctx, specifier.JSR, "@std/path", registry.Options{})
//
// # Endpoints
//
// JSR: GET <base>/<scope>/<name>/meta.json. npm: GET <base>/<name> with the
// slash in scoped names percent-encoded. Base URLs are overridable for
// mirrors and tests.
//
// # Errors
//
// A 404 yields [ErrNotFound]; other non-2xx responses yield [ErrFetch].
// Network errors and 5xx responses are retried with exponential backoff
// before being reported. Context cancellation is propagated unchanged.
// Yanked (JSR) and deprecated (npm) versions are filtered out unless
// requested via [Options].IncludeYanked.
package registry
