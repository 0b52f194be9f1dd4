// Package archive stores completed runs so they can be looked up by ID afterwards.
package archive

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
)

const defaultPageSize = 20

// Summary describes an archived run from storage metadata only.
type Summary struct {
	RunID     string    `json:"run_id"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListRequest selects one page of archived runs. Runs are listed in ID order, which is
// creation order for the time-ordered IDs the service assigns.
type ListRequest struct {
	PageSize  int
	PageToken string
}

// ListResponse is one page of archived runs.
type ListResponse struct {
	Runs          []Summary `json:"runs"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

// Repository is a RunRepository that can also list what it holds.
type Repository interface {
	travai.RunRepository
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
}

// validRunID rejects anything that is not a UUID so that IDs never reach storage
// paths unchecked.
func validRunID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return goerr.Wrap(travai.ErrRunNotFound, "malformed run ID", goerr.V("run_id", id))
	}
	return nil
}

func pageSize(n int) int {
	if n <= 0 {
		return defaultPageSize
	}
	return n
}

func encodePageToken(name string) string {
	return base64.URLEncoding.EncodeToString([]byte(name))
}

func decodePageToken(token string) (string, error) {
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode page token")
	}
	return string(b), nil
}
