// Package haloclient provides the primary entry point for constructing a
// Halo 2.x API client that implements the halo.Client interface.
//
// It layers configuration, HTTP transport, authentication, retries and
// endpoint fallback on top of the resource interfaces and types defined in
// the halo package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/halo-client/pkg/halo"
//	  "github.com/fivetwenty-io/halo-client/pkg/haloclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With a personal access token:
//	  cli, err := haloclient.NewWithToken("https://blog.example.com", "pat_...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with username/password; the login happens on first use:
//	  cli, err = haloclient.New(&halo.Config{
//	    BaseURL:    "https://blog.example.com",
//	    Username:   "admin",
//	    Password:   "secret",
//	    MaxRetries: halo.Retries(5),
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  result, err := cli.Attachments().Upload(ctx, &halo.UploadTarget{FilePath: "cover.png"})
//	  if err != nil { log.Fatal(err) }
//	  _ = result
//	}
//
// A configuration without a token or a username/password pair is rejected by
// New with a *halo.ConfigurationError.
package haloclient
