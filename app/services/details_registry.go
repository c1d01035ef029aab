package services

import "sync"

// SideDetailsRegistry hands out one SideDetails view-model per storefront
// session. A session keeps a single view-model; Navigate takes care of
// resetting it when the user moves between products.
type SideDetailsRegistry struct {
	deps SideDetailsDeps

	mu  sync.Mutex
	vms map[string]*SideDetails
}

func NewSideDetailsRegistry(deps SideDetailsDeps) *SideDetailsRegistry {
	return &SideDetailsRegistry{
		deps: deps,
		vms:  make(map[string]*SideDetails),
	}
}

func (r *SideDetailsRegistry) Get(sessionID string) *SideDetails {
	r.mu.Lock()
	defer r.mu.Unlock()
	vm, ok := r.vms[sessionID]
	if !ok {
		vm = NewSideDetails(r.deps)
		r.vms[sessionID] = vm
	}
	return vm
}

// Drop forgets a session's view-model, e.g. on logout.
func (r *SideDetailsRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vms, sessionID)
}
