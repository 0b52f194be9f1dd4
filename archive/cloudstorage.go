package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"google.golang.org/api/iterator"
)

// CloudStorage keeps each run as the object {prefix}{run_id}.json in a bucket.
type CloudStorage struct {
	bucket string
	prefix string
	client *storage.Client
}

var _ Repository = (*CloudStorage)(nil)

// NewCloudStorage creates a repository backed by a Cloud Storage bucket using
// application default credentials.
func NewCloudStorage(ctx context.Context, bucket, prefix string) (*CloudStorage, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &CloudStorage{
		bucket: bucket,
		prefix: prefix,
		client: client,
	}, nil
}

// Close releases the underlying client.
func (x *CloudStorage) Close() error {
	return x.client.Close()
}

func (x *CloudStorage) objectName(id string) string {
	return x.prefix + id + ".json"
}

// Save implements travai.RunRepository.
func (x *CloudStorage) Save(ctx context.Context, run *travai.Run) error {
	if err := validRunID(run.ID); err != nil {
		return err
	}

	name := x.objectName(run.ID)
	w := x.client.Bucket(x.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if err := json.NewEncoder(w).Encode(run); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write run object",
			goerr.V("bucket", x.bucket),
			goerr.V("object", name),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize run object",
			goerr.V("bucket", x.bucket),
			goerr.V("object", name),
		)
	}
	return nil
}

// Get implements travai.RunRepository.
func (x *CloudStorage) Get(ctx context.Context, id string) (*travai.Run, error) {
	if err := validRunID(id); err != nil {
		return nil, err
	}

	name := x.objectName(id)
	reader, err := x.client.Bucket(x.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(travai.ErrRunNotFound, "run object does not exist", goerr.V("run_id", id))
		}
		return nil, goerr.Wrap(err, "failed to read run object",
			goerr.V("bucket", x.bucket),
			goerr.V("object", name),
		)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read run data",
			goerr.V("bucket", x.bucket),
			goerr.V("object", name),
		)
	}

	var run travai.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, goerr.Wrap(err, "failed to parse run data",
			goerr.V("bucket", x.bucket),
			goerr.V("object", name),
		)
	}
	return &run, nil
}

// List implements Repository.
func (x *CloudStorage) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	query := &storage.Query{Prefix: x.prefix}
	if req.PageToken != "" {
		last, err := decodePageToken(req.PageToken)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid page token")
		}
		query.StartOffset = last + "\x00"
	}

	it := x.client.Bucket(x.bucket).Objects(ctx, query)
	size := pageSize(req.PageSize)

	resp := &ListResponse{Runs: []Summary{}}
	var lastName string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return resp, nil
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list run objects",
				goerr.V("bucket", x.bucket),
				goerr.V("prefix", x.prefix),
			)
		}

		id := strings.TrimSuffix(strings.TrimPrefix(attrs.Name, x.prefix), ".json")
		if !strings.HasSuffix(attrs.Name, ".json") || id == "" || strings.Contains(id, "/") {
			continue
		}

		if len(resp.Runs) == size {
			resp.NextPageToken = encodePageToken(lastName)
			return resp, nil
		}

		resp.Runs = append(resp.Runs, Summary{
			RunID:     id,
			Size:      attrs.Size,
			UpdatedAt: attrs.Updated,
		})
		lastName = attrs.Name
	}
}
