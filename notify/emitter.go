package notify

import (
	"time"
)

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Publish(ev Event) bool
}

// Emitter records every event in the feed and forwards it for delivery.
type Emitter struct {
	feed      *Feed
	publisher Publisher
	now       func() time.Time
}

func NewEmitter(feed *Feed, publisher Publisher) *Emitter {
	return &Emitter{
		feed:      feed,
		publisher: publisher,
		now:       time.Now,
	}
}

// Emit adds text to the activity feed and queues it for the group channel.
func (e *Emitter) Emit(kind, text string) {
	if e.feed != nil {
		e.feed.Add(text)
	}
	e.publish(newEvent(kind, text, e.now()))
}

// EmitMarkdown is Emit for text that is already formatted for the chat
// channel. plain is what goes into the feed.
func (e *Emitter) EmitMarkdown(kind, plain, markdown string) {
	if e.feed != nil {
		e.feed.Add(plain)
	}
	ev := newEvent(kind, markdown, e.now())
	ev.Markdown = true
	e.publish(ev)
}

// Direct queues a private message. Direct messages are not part of the feed.
func (e *Emitter) Direct(recipient, text string) {
	ev := newEvent(KindDirect, text, e.now())
	ev.Recipient = recipient
	e.publish(ev)
}

func (e *Emitter) Feed() *Feed {
	return e.feed
}

func (e *Emitter) publish(ev Event) {
	if e.publisher == nil {
		return
	}
	e.publisher.Publish(ev)
}
