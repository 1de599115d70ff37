// Package api implements the signed request pipeline for the Amatino
// accounting API.
//
// Every call is a single HTTP exchange. The request body is serialised once,
// signed together with the path and a unix timestamp, and sent with the
// signature and session id as headers. The response is a JSON object or list
// that callers decode into their own types.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := api.NewClient(logger, api.WithTimeout(5*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	payload, err := api.NewObjectPayload(args, false)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Do(ctx, api.Request{
//		Path:        "/accounts",
//		Method:      api.MethodPost,
//		Credentials: session,
//		Payload:     payload,
//		Parameters:  api.NewParameters(entityID),
//	})
//
// # Signing
//
// The signed message is the timestamp in decimal, then the path without its
// query string, then the body bytes when there is a body. The signature is
// the base64 encoded HMAC-SHA512 of that message keyed with the session API
// key.
//
// # Error Handling
//
//   - ResourceNotFoundError: the API answered 404
//   - APIError: any other non-2xx status, with classification helpers
//   - MissingKeyError, UnexpectedResponseTypeError: response data did not
//     have the expected shape; both wrap ErrInvalidResponse
//   - ConstraintError: a value failed validation before anything was sent
//
// Transport failures are wrapped with %w so errors.Is and errors.As see the
// underlying net/http error.
package api
