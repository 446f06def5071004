package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/internal/adapters/logger"
	"go.trai.ch/mason/internal/core/ports"
)

const (
	// WatcherNodeID is the unique identifier for the file watcher Graft node.
	WatcherNodeID graft.ID = "adapter.watcher"
	// ChangeFilterNodeID is the unique identifier for the content change filter Graft node.
	ChangeFilterNodeID graft.ID = "adapter.change_filter"
)

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(log)
		},
	})

	graft.Register(graft.Node[*ChangeFilter]{
		ID:        ChangeFilterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*ChangeFilter, error) {
			return NewChangeFilter(), nil
		},
	})
}
