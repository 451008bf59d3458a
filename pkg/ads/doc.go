// Package ads provides types, interfaces, and helpers for working with the
// Twitter Ads API.
//
// # Overview
//
// Every resource (Account, Campaign, LineItem, creatives, audiences, targeting
// catalogs) is an Object: a Schema of declared properties plus the values
// hydrated from the API. Schemas are plain ordered tables of
// (name, kind, read-only) entries; Hydrate and Serialize apply the coercions
// for time and bool kinds.
//
// A concrete transport is provided by the adsclient package, which wires
// credentials, OAuth1 signing, tracing and the HTTP client. Most consumers
// should import adsclient to construct a client and then walk the account
// graph from there.
//
// Getting a client
//
//	cli, err := adsclient.New(ctx, &ads.Config{
//	  ConsumerKey:       "...",
//	  ConsumerSecret:    "...",
//	  AccessToken:       "...",
//	  AccessTokenSecret: "...",
//	})
//	if err != nil { log.Fatal(err) }
//
//	account, err := cli.Account(ctx, "18ce54d4x5t")
//	if err != nil { log.Fatal(err) }
//
// # Cursors
//
// Collection endpoints return a Cursor, which fetches pages lazily and follows
// next_cursor tokens:
//
//	campaigns := account.Campaigns(ctx, ads.Params{"with_deleted": true})
//	for campaigns.HasNext() {
//	  campaign, err := campaigns.Next()
//	  if err != nil { break }
//	  _ = campaign
//	}
//
// A cursor is single pass. Reset re-issues the initial request.
//
// # Manual requests
//
// Any endpoint can be reached with a Request:
//
//	req := ads.NewRequest(http.MethodGet, "/12/accounts/%{account_id}/features",
//	  ads.WithPathParams(map[string]string{"account_id": account.ID()}))
//	resp, err := req.Perform(ctx, cli)
//
// # Errors
//
// Responses with a status of 400 or above are converted into *Error values by
// Classify. Helpers such as IsNotFound and IsRateLimit branch on the common
// cases, and RetryAfter exposes the server-provided backoff hint.
package ads
