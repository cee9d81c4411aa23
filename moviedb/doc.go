// Package moviedb provides a client for the movie catalog REST API.
//
// The catalog backend exposes versioned CRUD and search endpoints for
// movies, actors, directors, genres and a combined people listing under
// /api/v1. This package wraps that contract with typed resource services,
// a shared HTTP core that handles credentials and connectivity, and
// boundary validation of every response payload.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: the shared HTTP core; attaches the bearer token, fails fast
//     when offline, and maps responses onto the error taxonomy
//   - Resource services: MovieService, ActorService, DirectorService,
//     GenreService, PeopleService and AuthService, one CRUD/query surface
//     per resource
//   - PageInfo / *Page types: the canonical paginated envelope every list
//     operation returns
//   - Errors: sentinels and structured error types for classification
//
// # Usage
//
// Create a client with the API base URL, then reach resources through the
// service accessors:
//
//	client, err := moviedb.New(
//		"https://catalog.example.com",
//		moviedb.WithTokenStore(store),
//		moviedb.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	page, err := client.Movies().List(ctx, 1, 10)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Errors fall into four categories, kept distinct so callers can react to
// each one differently:
//
//   - ErrOffline: the connectivity probe reported no network; the request
//     was never dispatched
//   - ErrSessionExpired: the server rejected the credentials; the stored
//     token has already been cleared
//   - ValidationError: the response decoded but failed schema checks; such
//     payloads must never be trusted or cached
//   - APIError: any other non-2xx response, carrying the server's status
//     and message
//
// All of them are errors.Is/errors.As friendly:
//
//	var apiErr *moviedb.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// handle missing resource
//	}
package moviedb
