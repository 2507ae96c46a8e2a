package task

import (
	"context"

	"github.com/google/uuid"
)

// CredentialSource supplies the decrypted provider API key for a user
// at the moment a generation attempt starts. The queue never stores
// credentials; it asks per attempt so key changes take effect on the
// next job.
type CredentialSource interface {
	APIKey(ctx context.Context, userID uuid.UUID) (string, error)
}
