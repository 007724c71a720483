// Package field implements the cursor-following particle field drawn behind
// the page content.
//
// An [Animator] owns a fixed pool of particles and a short pointer trail. It
// reads two values it does not own, the pointer position ([PointerSource])
// and the page theme ([ThemeSource]), and writes only to its [Canvas]:
//
//   - particles drift toward the pointer inside an attraction radius, push
//     each other apart at short range, lose speed to friction and pulse in
//     size; they are reset in place near the pointer when their life runs
//     out or they leave the viewport plus a margin
//   - particles of the same color class are joined by faint lines
//   - every pointer move leaves a glowing trail point that fades out
//
// # Frame loop
//
// Hosts drive the field through [Animator.Tick], once per display frame:
//
//	a := field.New(field.DefaultParams(), cursor, themeSwitch, field.WithCanvas(c))
//	for frame := range frames {
//	    a.Tick(frame.Delta)
//	}
//
// [Animator.Start] wraps the same step around a channel of frame timestamps.
//
// # Capacity
//
// Repulsion and link drawing compare every particle with every other one, so
// a frame costs O(n²) in the pool size. The pool is fixed at construction and
// small (70 by default); the trail is capped at [Params.TrailMax] points.
//
// # Thread Safety
//
// An Animator is driven from a single goroutine. Pointer and theme reads are
// not synchronized.
package field
