// Package director is a scripted 2D motion-graphics compositor built on
// [Ebitengine].
//
// It provides the scene graph, flex/grid layout engine, keyframe and
// spring animation system, render pipeline (masks, mattes, blend modes,
// effect chains, transitions, motion blur), nested-composition model,
// Lottie interpreter, and video decode/export strategy that a programmatic
// video-generation tool needs.
//
// # Quick start
//
// A [Director] owns a [Scene], a timeline of [TimelineItem] entries, and
// the asset/audio state shared across a render:
//
//	ctx := director.NewDirectorContext(loader)
//	dir := director.NewDirector(ctx, 1920, 1080)
//	scene := dir.Scene
//	// ... add nodes, timeline items, assets ...
//	dir.Update(dt)
//	dir.Render(screen)
//
// # Scene graph
//
// Every visual element is a [SceneNode] addressed by a stable [NodeId],
// never a pointer — nodes live in an arena and recycle their slot on
// [Scene.DestroyNode]. Children inherit their parent's transform and
// opacity; z-index governs paint order only among siblings.
//
//	root := scene.AddNode(NewBoxElement())
//	child := scene.AddNode(NewTextElement("hello"))
//	scene.AddChild(root, child)
//
// # Key features
//
// director includes keyframe and spring-physics property animation,
// path-following animation, audio-reactive property bindings, a CSS-like
// flex/grid layout engine, Kage shader effect chains, crossfade/slide/
// wipe/circle-open transitions, mask and matte compositing, nested
// compositions with independent timelines, a Lottie (vector animation)
// interpreter, and threaded preview playback alongside deterministic
// frame-exact export (via [go-astiav] decode and [ffmpeg-go] encode).
//
// [Ebitengine]: https://ebitengine.org
// [go-astiav]: https://github.com/asticode/go-astiav
// [ffmpeg-go]: https://github.com/u2takey/ffmpeg-go
package director
