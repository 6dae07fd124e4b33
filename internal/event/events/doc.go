// Package events defines the topics and payloads published on the event bus.
package events
