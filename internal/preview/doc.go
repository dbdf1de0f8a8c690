// Package preview renders the featured-projects carousel in a terminal with
// Bubble Tea. It drives the same carousel state machine as the site, with
// columns standing in for pixels.
package preview
