package director

import "fmt"

// PathAnimation drives a node's TranslateX/TranslateY from progress along an
// SVG path, length-parameterised: Progress in [0,1] maps to arc-length
// dist = Progress * pathLength, and the point at that distance becomes the
// transform's translation for the frame (spec §3/§9.4, SUPPLEMENTED
// FEATURES item 4 — applied after the ordinary keyframe transform update in
// the same pass, so it wins over a keyframed x/y on the same node).
type PathAnimation struct {
	Points   []pathPoint // flattened polyline approximation of the path
	Length   float64
	Progress *Animated[float64]
}

type pathPoint struct {
	X, Y float64
	Dist float64 // cumulative arc length up to this point
}

// sample returns the (x,y) at arc-length distance d along the polyline.
func (p *PathAnimation) sample(d float64) (float64, float64) {
	pts := p.Points
	if len(pts) == 0 {
		return 0, 0
	}
	if d <= pts[0].Dist {
		return pts[0].X, pts[0].Y
	}
	last := pts[len(pts)-1]
	if d >= last.Dist {
		return last.X, last.Y
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Dist >= d {
			prev := pts[i-1]
			span := pts[i].Dist - prev.Dist
			t := 0.0
			if span > 0 {
				t = (d - prev.Dist) / span
			}
			return prev.X + (pts[i].X-prev.X)*t, prev.Y + (pts[i].Y-prev.Y)*t
		}
	}
	return last.X, last.Y
}

// AudioBinding ties a node's transform property to the energy of one audio
// band, overriding the keyframed current_value for that property every
// frame it is active (spec §4.6; evaluated in the Director's Pass 3, after
// ordinary animation update).
type AudioBinding struct {
	TrackID             int
	Band                string // "bass", "mids", "highs", or "custom"
	CustomLow, CustomHigh float64
	Property            string // "scale","scale_x","scale_y","x","y","rotation","opacity"
	MinValue, MaxValue  float64
	Smoothing           float64 // in [0,1]
	prevValue           float64
}

// SceneNode is one slot in the scene arena (spec §3). All cross-node
// references (Parent, Children, MaskNode) are NodeIds, never pointers.
type SceneNode struct {
	id       NodeId
	Element  Element
	Parent   NodeId
	Children []NodeId
	MaskNode NodeId

	BlendMode BlendMode
	ZIndex    int

	Transform *Transform

	LayoutRect Rect

	LocalTime     float64
	LastVisitTime float64

	PathAnim *PathAnimation

	AudioBindings []AudioBinding

	DirtyStyle bool
}

// isActiveAt reports whether the node was stamped with globalTime during
// the Director's most recent mark-active pass (invariant I3). The epsilon
// matches the original engine's float comparison exactly.
func (n *SceneNode) isActiveAt(globalTime float64) bool {
	d := n.LastVisitTime - globalTime
	if d < 0 {
		d = -d
	}
	return d < 0.0001
}

// Scene is the arena holding every SceneNode for one Director (and,
// independently, for each nested Composition's own sub-Director).
type Scene struct {
	nodes *arena[SceneNode]
}

// NewScene creates an empty scene arena.
func NewScene() *Scene {
	return &Scene{nodes: newArena[SceneNode]()}
}

// AddNode allocates a node wrapping the given element, with no parent, no
// mask, and a fresh Transform at rest.
func (s *Scene) AddNode(el Element) NodeId {
	n := &SceneNode{
		Element:   el,
		Parent:    invalidNode,
		MaskNode:  invalidNode,
		Transform: NewTransform(),
	}
	idx := s.nodes.insert(n)
	n.id = NodeId(idx)
	return n.id
}

// Get returns the node at id, or nil if id is out of range or destroyed.
func (s *Scene) Get(id NodeId) *SceneNode {
	return s.nodes.get(int(id))
}

// Len reports the arena's slot count (including freed slots).
func (s *Scene) Len() int {
	return s.nodes.len()
}

// Each calls fn for every live node.
func (s *Scene) Each(fn func(id NodeId, n *SceneNode)) {
	s.nodes.each(func(idx int, n *SceneNode) { fn(NodeId(idx), n) })
}

// AddChild appends child to parent's child list, detaching it from any
// prior parent first and refusing the operation if child is an ancestor of
// parent (which would create a cycle).
func (s *Scene) AddChild(parent, child NodeId) error {
	p := s.Get(parent)
	c := s.Get(child)
	if p == nil || c == nil {
		debugCheckDisposed(false, parent, "AddChild")
		return fmt.Errorf("director: AddChild: parent or child node does not exist")
	}
	if s.isAncestor(child, parent) {
		return fmt.Errorf("director: AddChild: %d is an ancestor of %d, refusing to create a cycle", child, parent)
	}
	if c.Parent != invalidNode {
		s.RemoveChild(c.Parent, child)
	}
	p.Children = append(p.Children, child)
	c.Parent = parent
	return nil
}

// isAncestor reports whether candidate is an ancestor of node (used for the
// add-child cycle guard).
func (s *Scene) isAncestor(candidate, node NodeId) bool {
	cur := s.Get(node)
	if cur == nil {
		return false
	}
	for cur.Parent != invalidNode {
		if cur.Parent == candidate {
			return true
		}
		cur = s.Get(cur.Parent)
		if cur == nil {
			return false
		}
	}
	return false
}

// RemoveChild removes child from parent's child list without destroying it;
// the child becomes parentless.
func (s *Scene) RemoveChild(parent, child NodeId) {
	p := s.Get(parent)
	if p == nil {
		return
	}
	for i, id := range p.Children {
		if id == child {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	if c := s.Get(child); c != nil && c.Parent == parent {
		c.Parent = invalidNode
	}
}

// DestroyNode removes id and every transitive descendant from the arena,
// detaching it from its parent first (invariant: destroying a node with
// live children removes every descendant too).
func (s *Scene) DestroyNode(id NodeId) {
	n := s.Get(id)
	if n == nil {
		return
	}
	if n.Parent != invalidNode {
		s.RemoveChild(n.Parent, id)
	}
	s.destroyRecursive(id)
}

func (s *Scene) destroyRecursive(id NodeId) {
	n := s.Get(id)
	if n == nil {
		return
	}
	for _, child := range n.Children {
		s.destroyRecursive(child)
	}
	s.nodes.remove(int(id))
}

// SetMask sets id's mask node. The mask is not a normal child in the draw
// traversal (invariant I2): it is stamped active and updated with its owner,
// but it is not laid out (layout walks Children only), and it is only ever
// drawn via the DstIn compositing path.
func (s *Scene) SetMask(id, mask NodeId) {
	if n := s.Get(id); n != nil {
		n.MaskNode = mask
	}
}

func (s *Scene) ClearMask(id NodeId) {
	if n := s.Get(id); n != nil {
		n.MaskNode = invalidNode
	}
}

// SetZIndex sets id's z-index. Sorting among siblings is stable (invariant
// I4); z-index never affects cross-branch ordering.
func (s *Scene) SetZIndex(id NodeId, z int) {
	if n := s.Get(id); n != nil {
		n.ZIndex = z
	}
}

func (s *Scene) SetBlendMode(id NodeId, mode BlendMode) {
	if n := s.Get(id); n != nil {
		n.BlendMode = mode
	}
}

// sortedChildren returns n's children ordered by z-index, stable on ties
// (insertion order preserved), without mutating n.Children.
func (s *Scene) sortedChildren(n *SceneNode) []NodeId {
	out := make([]NodeId, len(n.Children))
	copy(out, n.Children)
	stableSortByZIndex(s, out)
	return out
}

func stableSortByZIndex(s *Scene, ids []NodeId) {
	// insertion sort: children lists are typically small, and stability
	// (equal z-index keeps insertion order) is required by invariant I4.
	for i := 1; i < len(ids); i++ {
		zi := 0
		if n := s.Get(ids[i]); n != nil {
			zi = n.ZIndex
		}
		j := i - 1
		for j >= 0 {
			zj := 0
			if n := s.Get(ids[j]); n != nil {
				zj = n.ZIndex
			}
			if zj <= zi {
				break
			}
			ids[j+1] = ids[j]
			j--
		}
		ids[j+1] = ids[i]
	}
}
