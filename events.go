package skinning

import "github.com/akmonengine/skinning/keyframe"

const (
	ANIMATION_START EventType = iota
	KEY_REACHED
	ANIMATION_FINISH
	BONE_ROTATED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Animation events
type AnimationStartEvent struct {
	Clip keyframe.Clip
}

func (e AnimationStartEvent) Type() EventType { return ANIMATION_START }

type KeyReachedEvent struct {
	Clip keyframe.Clip
	Key  int
}

func (e KeyReachedEvent) Type() EventType { return KEY_REACHED }

type AnimationFinishEvent struct {
	Clip keyframe.Clip
}

func (e AnimationFinishEvent) Type() EventType { return ANIMATION_FINISH }

// BoneRotatedEvent is sent when a bone is rotated directly, outside of a clip
type BoneRotatedEvent struct {
	Bone int
}

func (e BoneRotatedEvent) Type() EventType { return BONE_ROTATED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 16),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events in emission order and clears the buffer.
// Listeners may mutate the scene: events they raise go to a fresh buffer and are
// delivered after the current batch.
func (e *Events) flush() {
	for len(e.buffer) > 0 {
		events := e.buffer
		e.buffer = make([]Event, 0, cap(events))

		for _, event := range events {
			if listeners, ok := e.listeners[event.Type()]; ok {
				for _, listener := range listeners {
					listener(event)
				}
			}
		}
	}
}
