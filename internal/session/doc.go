// Package session mounts one carousel per site visitor and owns its lifecycle:
// the resize coalescer, autoplay and change subscribers attached on mount are
// all released on unmount or when the session goes idle.
package session
