// Package scene loads scene manifests and the sprite atlases they reference.
//
// Loading is the only asynchronous part of sprite2d. A Loader fetches the
// manifest, then every atlas concurrently; an atlas that fails to load is
// replaced by atlas.Placeholder so the rest of the scene stays usable. Frame
// callbacks observe progress by polling a Handle.
package scene

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/younwookim/sprite2d/internal/domain/atlas"
)

// AtlasRef points at an atlas's metadata JSON (Src) and sheet image (Map).
type AtlasRef struct {
	Src string `json:"src"`
	Map string `json:"map"`
}

// ObjectDef maps component ids to their raw component data.
type ObjectDef map[string]json.RawMessage

// Manifest is the parsed scene JSON document.
type Manifest struct {
	Scene map[string]ObjectDef `json:"scene"`
	Atlas map[string]AtlasRef  `json:"atlas,omitempty"`
}

// ParseManifest parses scene JSON.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse scene manifest: %w", err)
	}
	if m.Scene == nil {
		m.Scene = map[string]ObjectDef{}
	}
	if m.Atlas == nil {
		m.Atlas = map[string]AtlasRef{}
	}
	return &m, nil
}

// Scene is a loaded manifest with every referenced atlas resolved.
// It is immutable once returned by Loader.Load.
type Scene struct {
	objects map[string]ObjectDef
	atlases map[string]*atlas.Atlas
}

// Atlas returns the atlas registered under id, or nil if the manifest does
// not reference it. Atlases that failed to load are placeholders, not nil.
func (s *Scene) Atlas(id string) *atlas.Atlas {
	if s == nil {
		return nil
	}
	return s.atlases[id]
}

// AtlasIDs returns the atlas ids in sorted order.
func (s *Scene) AtlasIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.atlases))
	for id := range s.atlases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Object returns the component data of a scene object.
func (s *Scene) Object(id string) (ObjectDef, bool) {
	if s == nil {
		return nil, false
	}
	o, ok := s.objects[id]
	return o, ok
}

// Objects returns the number of scene objects.
func (s *Scene) Objects() int {
	if s == nil {
		return 0
	}
	return len(s.objects)
}

// Component decodes one component of a scene object into v.
func (s *Scene) Component(objectID, componentID string, v any) error {
	o, ok := s.Object(objectID)
	if !ok {
		return fmt.Errorf("scene object %q not found", objectID)
	}
	raw, ok := o[componentID]
	if !ok {
		return fmt.Errorf("component %q not found on scene object %q", componentID, objectID)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode component %q of %q: %w", componentID, objectID, err)
	}
	return nil
}
