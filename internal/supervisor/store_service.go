// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package supervisor

import (
	"context"
	"fmt"
	"io"
)

// StoreService ties a store's lifetime to the supervision tree: it holds the
// store open until the tree shuts down, then closes it so Badger can flush
// its value log.
type StoreService struct {
	closer io.Closer
	name   string
}

// NewStoreService creates a service that closes closer on shutdown.
func NewStoreService(closer io.Closer) *StoreService {
	return &StoreService{closer: closer, name: "store"}
}

// Serve implements suture.Service.
func (s *StoreService) Serve(ctx context.Context) error {
	<-ctx.Done()
	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("store close failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *StoreService) String() string {
	return s.name
}
