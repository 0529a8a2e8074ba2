/*
Package tbclient provides the entry point for creating TimeBack API clients.

# Quick Start

Create a client with client credentials:

	client, err := tbclient.New(ctx, &timeback.Config{
		Environment:  timeback.EnvironmentStaging,
		TokenURL:     "https://auth.example.com/oauth2/token",
		ClientID:     "my-client",
		ClientSecret: "my-secret",
	})

Or with a pre-issued token:

	client, err := tbclient.NewWithToken(ctx, "https://api.example.com", "token")

# Environment

Setting Config.UseEnvironment fills empty fields from TIMEBACK_* variables.
Fields set in code always win, and anything left empty falls back to the
defaults of the selected environment.

	TIMEBACK_ENVIRONMENT    production or staging
	TIMEBACK_API_URL        OneRoster and PowerPath base URL
	TIMEBACK_QTI_URL        QTI base URL
	TIMEBACK_POWERPATH_URL  PowerPath base URL override
	TIMEBACK_CALIPER_URL    Caliper event host, defaults to the API URL
	TIMEBACK_TOKEN_URL      OAuth2 token endpoint
	TIMEBACK_CLIENT_ID      OAuth2 client id
	TIMEBACK_CLIENT_SECRET  OAuth2 client secret
	TIMEBACK_ACCESS_TOKEN   pre-issued bearer token
	TIMEBACK_SCOPES         comma or space separated scopes
	TIMEBACK_HTTP_TIMEOUT   per-call timeout, e.g. 30s
	TIMEBACK_RETRY_MAX      retry attempts for transient failures
	TIMEBACK_LOG_LEVEL      trace, debug, info, warn or error
	TIMEBACK_CACHE          memory, nats or none
	TIMEBACK_CACHE_TTL      lifetime of cached GET responses
	TIMEBACK_NATS_URL       NATS server for the nats cache
	TIMEBACK_NATS_BUCKET    JetStream key-value bucket for the nats cache

NewFromEnvironment reads everything from the environment.

# Services

	users, err := client.Rostering().Users().List(ctx, timeback.NewQueryParams().WithLimit(10))
	item, err := client.QTI().AssessmentItems().Get(ctx, "item-1")
	syllabus, err := client.PowerPath().GetCourseSyllabus(ctx, "course-1")

Services can also be looked up by name:

	svc, err := client.Service("gradebook")
	gradebook := svc.(timeback.GradebookService)

# Legacy surface

LegacyClient keeps the flat methods of earlier releases (GetUser, ListUsers, ...)
and forwards them to the services. It is deprecated.
*/
package tbclient
