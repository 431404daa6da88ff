package director

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LifecycleEventKind names what happened to a node, for a host's ECS to
// react to (spawn a paired game-logic entity, tear one down).
type LifecycleEventKind int

const (
	NodeCreated LifecycleEventKind = iota
	NodeDestroyed
)

// LifecycleEvent is published to LifecycleEventType whenever a node is
// created or destroyed through a Director wired to a LifecycleBridge.
// §1's Non-goals exclude hit-testing and interactive pointer events, but a
// host embedding this as a library still wants to keep external ECS state
// (tags, game-logic components) in sync with the scene graph's own
// lifecycle, generalizing the teacher's interaction-event bridge from
// pointer/drag/pinch events to node lifecycle instead.
type LifecycleEvent struct {
	Kind LifecycleEventKind
	Node NodeId
}

// LifecycleEventType is the Donburi event type scripts/systems subscribe to
// via events.Subscribe to receive LifecycleEvents.
var LifecycleEventType = events.NewEventType[LifecycleEvent]()

// LifecycleBridge publishes scene lifecycle events into a Donburi world.
type LifecycleBridge struct {
	world donburi.World
}

// NewLifecycleBridge wraps world, publishing every subsequent node
// creation/destruction on a Director this bridge is attached to.
func NewLifecycleBridge(world donburi.World) *LifecycleBridge {
	return &LifecycleBridge{world: world}
}

func (b *LifecycleBridge) emit(kind LifecycleEventKind, id NodeId) {
	LifecycleEventType.Publish(b.world, LifecycleEvent{Kind: kind, Node: id})
}

// SetLifecycleBridge attaches b to d; subsequent CreateNode/DestroyNode
// calls made through d publish to it.
func (d *Director) SetLifecycleBridge(b *LifecycleBridge) {
	d.bridge = b
}

// CreateNode allocates a node on d's scene and, if a LifecycleBridge is
// attached, publishes a NodeCreated event for it.
func (d *Director) CreateNode(el Element) NodeId {
	id := d.Scene.AddNode(el)
	if d.bridge != nil {
		d.bridge.emit(NodeCreated, id)
	}
	return id
}

// DestroyNode removes id (and its descendants) from d's scene and, if a
// LifecycleBridge is attached, publishes a NodeDestroyed event for it
// before the node actually disappears from the arena.
func (d *Director) DestroyNode(id NodeId) {
	if d.bridge != nil {
		d.bridge.emit(NodeDestroyed, id)
	}
	d.Scene.DestroyNode(id)
}
