// Package timeback provides types, interfaces, and helpers for working with the
// TimeBack API: OneRoster 1.2 rostering, gradebook and resources, QTI 3.0
// assessment content, the PowerPath lesson extensions, CASE competency
// frameworks, EduBridge listings and Caliper time spent events.
//
// # Overview
//
// The timeback package defines the domain models (User, Org, Course, Class,
// Enrollment, AssessmentItem, ...) and the interfaces of the resource clients
// (UsersClient, ClassesClient, AssessmentItemsClient, ...). The concrete client
// lives in the tbclient package, which wires configuration, authentication and
// transport.
//
//	cli, err := tbclient.New(ctx, &timeback.Config{
//	  Environment:  timeback.EnvironmentStaging,
//	  TokenURL:     "https://auth.example.com/oauth2/token",
//	  ClientID:     "id",
//	  ClientSecret: "secret",
//	})
//	if err != nil { log.Fatal(err) }
//
//	users, err := cli.Rostering().Users().List(ctx, timeback.NewQueryParams().
//	  WithLimit(10).
//	  WithFilter("role='student' AND status='active'"))
//
// # Queries and pagination
//
// QueryParams expresses the OneRoster list options (limit, offset, sort,
// orderBy, filter, fields). Filters are checked for structure before they are
// sent. Collections can be walked page by page:
//
//	it := timeback.NewPaginationIterator(ctx, cli.Rostering().Users().List, nil)
//	for it.HasNext() {
//	  user, _ := it.Next()
//	  _ = user
//	}
//
// # Errors
//
// Failures are reported as AuthError, ValidationError, APIError,
// TransportError or DecodeError. IsNotFound, IsUnauthorized, IsForbidden and
// IsValidation branch on the common cases.
//
// # Caching
//
// GET responses can be cached in memory or in a NATS JetStream key-value
// bucket by setting Config.Cache. Keys are namespaced by the token URL and
// client ID (or the access token), so clients with different credentials can
// share one bucket without reading each other's records. A cache hit is served
// without contacting the token endpoint: revoking credentials does not evict
// entries already cached, which live until CacheTTL passes or a write clears
// the cache.
package timeback
