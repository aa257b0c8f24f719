// Package snapshot persists watched models as JSON snapshots.
//
// A snapshot is the model's data: nested maps are copied recursively and
// derived functions are omitted, so snapshots of the same model are
// stable regardless of which derived values it carries. Restoring applies
// keys through the Object's write path, so sinks observe the restoration
// as ordinary change notifications.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// Encode marshals a snapshot of obj as JSON.
func Encode(obj *ripple.Object) ([]byte, error) {
	return json.Marshal(obj.Snapshot())
}

// Decode unmarshals JSON snapshot data.
func Decode(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return m, nil
}

// Save encodes obj and writes it to store under name.
func Save(ctx context.Context, store Store, name string, obj *ripple.Object) error {
	data, err := Encode(obj)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return store.Save(ctx, name, data)
}

// Restore loads the snapshot saved under name and applies it to obj.
func Restore(ctx context.Context, store Store, name string, obj *ripple.Object) error {
	data, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	m, err := Decode(data)
	if err != nil {
		return err
	}
	return Apply(obj, m)
}

// Apply writes each key of m through obj.Set in sorted key order, so the
// notification sequence of a restoration is deterministic. Keys present
// on the model but absent from m are left alone.
func Apply(obj *ripple.Object, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := obj.Set(k, m[k]); err != nil {
			return fmt.Errorf("snapshot: apply %q: %w", k, err)
		}
	}
	return nil
}
