// Package services implements the catalog client the curation pipeline consumes.
//
// # Catalog Interface
//
// [Catalog] abstracts the streaming provider's read/write surface: paginated
// release and track listings, artist metadata, playlist metadata, and playlist
// item appends. [CatalogService] implements it against the Spotify Web API.
//
// # Credential Management
//
// [TokenManager] caches a single access token and refreshes it through the
// refresh-token grant when expired. The refresh is mutex-guarded so concurrent
// callers never race to refresh. Refresh failures surface as
// [shared.AuthError] and abort the run; no stale credential is ever reused.
//
// # Rate Limiting
//
// Every request waits on a shared client-side [rate.Limiter], because the
// provider's limit applies account-wide rather than per endpoint. A 429
// response additionally triggers the Retry-After guard: the request sleeps for
// the provider-specified duration (1s when absent) and retries, up to a
// bounded budget. Exhausting the budget yields a [shared.CatalogError]
// wrapping [shared.ErrRateLimited] instead of looping forever.
//
// # Error Handling
//
// Non-2xx responses other than 429 are never retried and carry the provider
// status and body in a [shared.CatalogError].
package services
