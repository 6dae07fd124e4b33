// Package dispatch runs event handlers with panic recovery and timing.
package dispatch
