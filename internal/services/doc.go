// Package services defines the [Catalog] interface for remote playlist catalogs and implements it for Spotify.
//
// # Catalog Interface
//
// A catalog returns the name and the ordered track list of a playlist. Implementations follow
// the provider's pagination so callers always receive the complete list.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the OAuth2 client credentials flow, so only public and
// shared playlists are reachable. Requests are paced with a token-bucket limiter and are not retried.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrMissingCredentials] : client id or secret not configured
//   - [shared.ErrAuthFailed] : the token endpoint rejected the credentials
//   - [shared.ErrPlaylistNotFound] : the playlist id is unknown or private
//   - [shared.ErrAPIRequest] : any other failed request
package services
