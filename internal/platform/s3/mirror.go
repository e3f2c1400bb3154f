package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/imamik/tfslot/internal/util/async"
	"github.com/imamik/tfslot/internal/util/fsutil"
	"github.com/imamik/tfslot/internal/util/naming"
	"github.com/imamik/tfslot/internal/util/retry"
)

// ObjectStore is the subset of Client the mirror needs.
type ObjectStore interface {
	ListObjects(ctx context.Context, bucketName, prefix string) ([]string, error)
	PutObject(ctx context.Context, bucketName, key string, data []byte) error
	GetObject(ctx context.Context, bucketName, key string) ([]byte, error)
	DeleteObject(ctx context.Context, bucketName, key string) error
}

// Mirror replicates archive directories to a bucket.
type Mirror struct {
	Store  ObjectStore
	Bucket string
	Prefix string
	Log    logr.Logger

	// Concurrency bounds parallel object transfers. Zero uses async.DefaultLimit.
	Concurrency int
	// Retry tunes the backoff applied to each object call.
	Retry []retry.Option
}

// Push uploads every file in archiveDir for cluster and deletes remote
// objects that no longer exist locally.
func (m *Mirror) Push(ctx context.Context, cluster, archiveDir string) error {
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %w", archiveDir, err)
	}

	local := map[string]bool{}
	var uploads []async.Task
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		file := filepath.Join(archiveDir, e.Name())
		key := naming.MirrorKey(m.Prefix, cluster, e.Name())
		local[key] = true
		uploads = append(uploads, async.Task{
			Name: "upload " + e.Name(),
			Func: func(ctx context.Context) error {
				// #nosec G304 - archive paths are derived from the resolved workspace
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				return m.do(ctx, func(ctx context.Context) error {
					return m.Store.PutObject(ctx, m.Bucket, key, data)
				})
			},
		})
	}
	if err := async.Run(ctx, m.Concurrency, uploads); err != nil {
		return err
	}

	remote, err := m.list(ctx, cluster)
	if err != nil {
		return err
	}
	var stale []string
	for _, key := range remote {
		if !local[key] {
			stale = append(stale, key)
		}
	}
	if err := m.deleteKeys(ctx, stale); err != nil {
		return err
	}

	m.Log.Info("mirrored archive", "cluster", cluster, "bucket", m.Bucket, "objects", len(local))
	return nil
}

// Fetch downloads cluster's mirrored archive into archiveDir and returns the
// number of files written. Zero means nothing is mirrored.
func (m *Mirror) Fetch(ctx context.Context, cluster, archiveDir string) (int, error) {
	prefix := naming.MirrorKeyPrefix(m.Prefix, cluster)
	keys, err := m.list(ctx, cluster)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(archiveDir, 0o750); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", archiveDir, err)
	}

	var n atomic.Int32
	var downloads []async.Task
	for _, key := range keys {
		name := path.Base(key)
		// Only direct children of the cluster prefix belong to the archive.
		if strings.TrimPrefix(key, prefix) != name {
			continue
		}
		downloads = append(downloads, async.Task{
			Name: "download " + name,
			Func: func(ctx context.Context) error {
				var data []byte
				err := m.do(ctx, func(ctx context.Context) error {
					var err error
					data, err = m.Store.GetObject(ctx, m.Bucket, key)
					if errors.Is(err, ErrObjectNotFound) {
						return retry.Permanent(err)
					}
					return err
				})
				if errors.Is(err, ErrObjectNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				if err := fsutil.AtomicWrite(filepath.Join(archiveDir, name), data, 0o600); err != nil {
					return err
				}
				n.Add(1)
				return nil
			},
		})
	}
	err = async.Run(ctx, m.Concurrency, downloads)
	if err != nil {
		return int(n.Load()), err
	}

	m.Log.Info("fetched mirrored archive", "cluster", cluster, "bucket", m.Bucket, "objects", n.Load())
	return int(n.Load()), nil
}

// Remove deletes cluster's mirrored archive.
func (m *Mirror) Remove(ctx context.Context, cluster string) error {
	keys, err := m.list(ctx, cluster)
	if err != nil {
		return err
	}
	if err := m.deleteKeys(ctx, keys); err != nil {
		return err
	}
	if len(keys) > 0 {
		m.Log.Info("removed mirrored archive", "cluster", cluster, "bucket", m.Bucket)
	}
	return nil
}

func (m *Mirror) list(ctx context.Context, cluster string) ([]string, error) {
	var keys []string
	err := m.do(ctx, func(ctx context.Context) error {
		var err error
		keys, err = m.Store.ListObjects(ctx, m.Bucket, naming.MirrorKeyPrefix(m.Prefix, cluster))
		return err
	})
	return keys, err
}

func (m *Mirror) deleteKeys(ctx context.Context, keys []string) error {
	tasks := make([]async.Task, 0, len(keys))
	for _, key := range keys {
		tasks = append(tasks, async.Task{
			Name: "delete " + key,
			Func: func(ctx context.Context) error {
				return m.do(ctx, func(ctx context.Context) error {
					return m.Store.DeleteObject(ctx, m.Bucket, key)
				})
			},
		})
	}
	return async.Run(ctx, m.Concurrency, tasks)
}

func (m *Mirror) do(ctx context.Context, op func(context.Context) error) error {
	return retry.Do(ctx, op, m.Retry...)
}
