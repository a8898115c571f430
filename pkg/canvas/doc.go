// Package canvas holds the viewport transform between world coordinates and
// screen coordinates. Frontends own the screen; everything else in the editor
// works in world units and goes through a [Viewport] at the boundary.
package canvas
