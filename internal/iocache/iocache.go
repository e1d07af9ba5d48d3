// Package iocache persists the run history of xmr processing calls.
//
// Only audit metadata is stored: one row per run and one row per
// (entity, metric) group. Control limits are never written here and the
// core engine never reads this package.
package iocache

import (
	"sync"

	"github.com/huangsam/xmr/internal/contract"
)

// StoreManager manages the stores used by a process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	analysis     contract.AnalysisStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetAnalysisStore returns the analysis AnalysisStore, or nil when tracking is disabled.
func (mgr *StoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}

// NewStoreManager wraps an existing store. Used by tests and embedded callers.
func NewStoreManager(store contract.AnalysisStore) *StoreManager {
	return &StoreManager{analysis: store}
}
