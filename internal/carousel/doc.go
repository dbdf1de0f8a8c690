// Package carousel implements the featured-projects carousel as a single state
// machine that every renderer shares.
//
// # Model
//
// A Carousel holds an ordered list of items, a breakpoint table that maps the
// viewport width to the number of visible items, and the index of the
// left-most visible item. The set of reachable indexes ("stops") depends on
// the loop mode, fixed at construction:
//
//   - ModeWindow: stops are sliding-window starts, N - visible + 1 of them.
//   - ModeItem: stops are items, N of them; the visible slice wraps.
//
// When every item fits (N <= visible) there is exactly one stop and all
// navigation is a no-op. An empty list has zero stops.
//
// Next, Prev, GoTo, DragRelease, Resize and SetItems all clamp through the
// same stop count, and Dots is derived from it, so the pagination can never
// offer a stop the index cannot reach.
//
// # Timing
//
// Navigation during a transition retargets it rather than queueing. Resize
// bursts go through a Coalescer (one apply per frame). Autoplay ticks on its
// own goroutine and is paused by holds (hover, drag) and cancelled by Stop.
package carousel
