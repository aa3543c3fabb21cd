package commands

import (
	"context"
	"errors"
	"testing"

	"meshbridge/internal/application"
	"meshbridge/internal/domain"
)

// scriptedWatcher fires one change per step, running step before each
type scriptedWatcher struct {
	steps []func()
}

func (w *scriptedWatcher) Watch(ctx context.Context, root string, changed func(ctx context.Context)) error {
	for _, step := range w.steps {
		step()
		changed(ctx)
	}
	return nil
}

func TestWatchCommand_Execute(t *testing.T) {
	source := &fakeSource{records: []domain.MaterialRecord{{Name: "wood", GUID: "1"}}}
	store := newFakeStore()
	cache := application.NewMappingCache(nil)

	watcher := &scriptedWatcher{steps: []func(){
		func() {
			source.records = append(source.records, domain.MaterialRecord{Name: "metal", GUID: "2"})
		},
		func() { source.err = errors.New("transient read failure") },
	}}

	var rebuilds int
	cmd := NewWatchCommand(NewBuildIndexCommand(source, store, nil, "/materials", "/guids.txt"), watcher, cache, quietLogger())
	cmd.OnRebuild = func(*BuildIndexResult) { rebuilds++ }

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if rebuilds != 2 {
		t.Errorf("expected 2 successful rebuilds, got %d", rebuilds)
	}
	if cache.Get().Resolve("metal") != "2" {
		t.Error("failed rebuild should keep the previous mapping")
	}
}

func TestWatchCommand_InitialFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("root missing")}
	cmd := NewWatchCommand(NewBuildIndexCommand(source, newFakeStore(), nil, "/materials", "/guids.txt"), &scriptedWatcher{}, nil, quietLogger())

	if err := cmd.Execute(context.Background()); err == nil {
		t.Error("expected initial rebuild error")
	}
}
