package vectorindex

import (
	"errors"
	"fmt"
)

// ErrTenantMismatch is returned when a batch mixes tenants.
var ErrTenantMismatch = errors.New("all chunks must belong to the same tenant")

// UpsertError reports a partially applied bulk upsert. Chunks counted in
// Succeeded are already indexed; the caller reconciles by re-running the
// ingestion.
type UpsertError struct {
	Succeeded int
	Failed    int
	Err       error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("bulk upsert failed after %d/%d chunks: %v", e.Succeeded, e.Succeeded+e.Failed, e.Err)
}

func (e *UpsertError) Unwrap() error {
	return e.Err
}
