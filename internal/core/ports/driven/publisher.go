package driven

import (
	"context"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

// Publisher performs the provider-specific publish sequence.
// Every call is authenticated with the given credential; implementations hold
// no credential of their own.
type Publisher interface {
	// FetchIdentity returns the subject the credential belongs to.
	// Fails with domain.ErrIdentityFetch on a non-200 response.
	FetchIdentity(ctx context.Context, cred *domain.Credential) (domain.PersonID, error)

	// UploadMedia registers an upload for person and transfers data to the
	// returned target. Fails with domain.ErrUpload if either step fails; the
	// transfer is never attempted when registration fails.
	UploadMedia(ctx context.Context, cred *domain.Credential, person domain.PersonID, data []byte) (domain.MediaReference, error)

	// Publish submits a public, published post authored by person.
	// media is attached only when non-nil. Fails with domain.ErrPublish
	// unless the provider answers created.
	Publish(
		ctx context.Context,
		cred *domain.Credential,
		person domain.PersonID,
		content string,
		media *domain.MediaReference,
	) (*domain.PublishResult, error)
}
