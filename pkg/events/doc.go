/*
Package events provides an in-memory event broker for cluster pub/sub
messaging.

The events package implements a lightweight event bus for broadcasting
cluster events to interested subscribers: a buffered publish queue,
buffered subscriber channels, and no persistence or ordering
guarantees beyond publish order on a single channel.

# Event Types

Resource Events:
  - resource.created, resource.updated, resource.deleted
  - resource.banned: defined; nothing in this module publishes it

Node Events:
  - node.joined, node.left
  - node.fenced: defined; nothing in this module publishes it
  - node.standby: defined; nothing in this module publishes it

Pass Events:
  - pass.completed: published by pkg/manager.PublishGraph for each graph
    it persists, carrying the transition graph id and action count in
    Metadata
  - leader.changed: defined; nothing in this module publishes it

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for event := range sub {
			switch event.Type {
			case events.EventNodeFenced:
				handleFenced(event)
			case events.EventPassCompleted:
				handlePassCompleted(event)
			}
		}
	}()

	broker.Publish(&events.Event{
		Type:    events.EventNodeFenced,
		Message: "node n2 fenced: peer has not been seen",
		Metadata: map[string]string{"node_id": "n2"},
	})

# Integration Points

This package integrates with:

  - pkg/manager: publishes node.joined/node.left when a node is created
    or deleted, resource.created/updated/deleted for resource commands,
    and pass.completed from PublishGraph; it is the only publisher

# Design Patterns

Buffered publish: Publish sends to a 100-event buffered channel and
returns as soon as the event is queued; while that buffer is full it
blocks until the broker loop drains it or Stop is called. A full
subscriber buffer skips rather than blocks.
Fire-and-forget: no acknowledgment, no retry, no persistence, suitable
for monitoring and reactive triggers, not for durable audit. Durable
history instead lives in pkg/storage's transition-graph bucket.

# Limitations

In-memory only, no replay, no guaranteed delivery, no topic filtering
(every subscriber sees every event type and filters client-side).
*/
package events
