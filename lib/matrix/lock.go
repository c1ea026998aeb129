// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked run retries the lock.
const lockRetryDelay = 100 * time.Millisecond

// DefaultLockPath returns the lock file used to serialize global-mode
// runs of every crossbuild process of the current user.
func DefaultLockPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "crossbuild", "global.lock"), nil
}

// acquireLock blocks until the lock at path is held or ctx is done.
// The returned function releases it.
func acquireLock(ctx context.Context, path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	lock := flock.New(path)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquiring lock %s: held by another process", path)
	}
	return lock.Unlock, nil
}
