// Package domain defines the core business entities for postcraft.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Keyword: A normalised topic token recorded after publishing
//   - Credential: The in-memory bearer token for the LinkedIn API
//   - DraftPost: Generated (and possibly edited) post content
//   - MediaReference: An uploaded image handle
//   - PublishResult: The provider-assigned post identifier
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
