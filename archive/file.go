package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
)

// File keeps each run as {dir}/{run_id}.json.
type File struct {
	dir string
}

var _ Repository = (*File)(nil)

// NewFile creates a File repository. The directory is created on first Save.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Save implements travai.RunRepository.
func (x *File) Save(_ context.Context, run *travai.Run) error {
	if err := validRunID(run.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(x.dir, 0750); err != nil {
		return goerr.Wrap(err, "failed to create archive directory", goerr.V("dir", x.dir))
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal run", goerr.V("run_id", run.ID))
	}

	path := filepath.Join(x.dir, run.ID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write run file", goerr.V("path", path))
	}
	return nil
}

// Get implements travai.RunRepository.
func (x *File) Get(_ context.Context, id string) (*travai.Run, error) {
	if err := validRunID(id); err != nil {
		return nil, err
	}

	path := filepath.Join(x.dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(travai.ErrRunNotFound, "run file does not exist", goerr.V("run_id", id))
		}
		return nil, goerr.Wrap(err, "failed to read run file", goerr.V("run_id", id))
	}

	var run travai.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, goerr.Wrap(err, "failed to parse run file", goerr.V("run_id", id))
	}
	return &run, nil
}

// List implements Repository. A missing directory is an empty archive.
func (x *File) List(_ context.Context, req ListRequest) (*ListResponse, error) {
	entries, err := os.ReadDir(x.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ListResponse{Runs: []Summary{}}, nil
		}
		return nil, goerr.Wrap(err, "failed to read archive directory", goerr.V("dir", x.dir))
	}

	type fileEntry struct {
		name string
		info fs.FileInfo
	}
	var files []fileEntry
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileEntry{name: e.Name(), info: info})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].name < files[j].name
	})

	start := 0
	if req.PageToken != "" {
		last, err := decodePageToken(req.PageToken)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid page token")
		}
		start = sort.Search(len(files), func(i int) bool {
			return files[i].name > last
		})
	}

	end := min(start+pageSize(req.PageSize), len(files))

	resp := &ListResponse{Runs: []Summary{}}
	for _, f := range files[start:end] {
		resp.Runs = append(resp.Runs, Summary{
			RunID:     strings.TrimSuffix(f.name, ".json"),
			Size:      f.info.Size(),
			UpdatedAt: f.info.ModTime(),
		})
	}
	if end < len(files) {
		resp.NextPageToken = encodePageToken(files[end-1].name)
	}

	return resp, nil
}
