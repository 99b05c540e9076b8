package fleet

import (
	"context"
	"fmt"

	"sentinel/internal/catalog"
	"sentinel/internal/config"
)

// Registry holds the configured camera fleet. Membership is fixed at
// construction; runtime state lives in StateMap.
type Registry struct {
	order   []string
	cameras map[string]Camera
}

// NewRegistry builds a registry from configuration. Camera order is
// preserved for listing.
func NewRegistry(cfg *config.Config) *Registry {
	reg := &Registry{cameras: make(map[string]Camera, len(cfg.Cameras))}
	for _, cam := range cfg.Cameras {
		c := fromConfig(cam)
		reg.cameras[c.ID] = c
		reg.order = append(reg.order, c.ID)
	}
	return reg
}

// All returns the cameras in configuration order.
func (r *Registry) All() []Camera {
	out := make([]Camera, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.cameras[id])
	}
	return out
}

// Get looks up a camera by identifier.
func (r *Registry) Get(id string) (Camera, bool) {
	cam, ok := r.cameras[id]
	return cam, ok
}

// Len reports the fleet size.
func (r *Registry) Len() int {
	return len(r.order)
}

// Mirror upserts every configured camera into the catalog so stored
// events always join against a current row.
func (r *Registry) Mirror(ctx context.Context, store *catalog.Store) error {
	for _, cam := range r.All() {
		row := catalog.CameraRow{ID: cam.ID, Name: cam.Name, Address: cam.Address}
		if err := store.UpsertCamera(ctx, row); err != nil {
			return fmt.Errorf("mirror camera %s: %w", cam.ID, err)
		}
	}
	return nil
}
