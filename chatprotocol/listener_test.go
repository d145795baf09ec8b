package chatprotocol

import (
	"reflect"
	"testing"
)

// countingListener counts each callback it receives.
type countingListener struct {
	BaseListener
	messages []TextMessage
	errors   []string
}

func (l *countingListener) OnMessageReceived(msg TextMessage) {
	l.messages = append(l.messages, msg)
}

func (l *countingListener) OnMessageError(description string) {
	l.errors = append(l.errors, "msg: "+description)
}

func (l *countingListener) OnCommandError(description string) {
	l.errors = append(l.errors, "cmd: "+description)
}

func TestDispatch(t *testing.T) {
	l := &countingListener{}

	Dispatch(l, NewMessageEvent("alice", true, "hi"))
	Dispatch(l, NewMessageErrorEvent("no such user"))
	Dispatch(l, NewCommandErrorEvent("bad"))
	Dispatch(l, NewMessageAcceptedEvent())
	Dispatch(l, NewUserListEvent([]string{"alice"}))

	if want := []TextMessage{{Sender: "alice", Private: true, Text: "hi"}}; !reflect.DeepEqual(l.messages, want) {
		t.Errorf("messages = %+v, want %+v", l.messages, want)
	}
	if want := []string{"msg: no such user", "cmd: bad"}; !reflect.DeepEqual(l.errors, want) {
		t.Errorf("errors = %v, want %v", l.errors, want)
	}
}

func TestChannelListenerForwardsEvents(t *testing.T) {
	l := NewChannelListener(8)

	events := []Event{
		NewLoginResultEvent(false, "taken"),
		NewDisconnectEvent(),
		NewUserListEvent([]string{"alice", "bob"}),
		NewMessageEvent("bob", false, "hello"),
		NewMessageErrorEvent("rejected"),
		NewCommandErrorEvent("unknown"),
		NewSupportedCommandsEvent([]string{"msg"}),
	}
	for _, e := range events {
		Dispatch(l, e)
	}

	for i, want := range events {
		got := <-l.Events()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("event %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestChannelListenerClose(t *testing.T) {
	l := NewChannelListener(1)
	l.Close()
	l.Close()

	// Dropped after Close rather than panicking on a closed channel.
	l.OnDisconnect()

	if _, ok := <-l.Events(); ok {
		t.Error("Events() should be closed")
	}
}

func TestListenerSet(t *testing.T) {
	var s listenerSet
	a, b := &countingListener{}, &countingListener{}

	if !s.add(a) || !s.add(b) {
		t.Fatal("add of new listeners should succeed")
	}
	if s.add(a) {
		t.Error("duplicate add should be rejected")
	}
	if got := s.snapshot(); len(got) != 2 || got[0] != Listener(a) || got[1] != Listener(b) {
		t.Errorf("snapshot = %v, want [a b]", got)
	}

	snap := s.snapshot()
	if !s.remove(a) {
		t.Error("remove of registered listener should succeed")
	}
	if s.remove(a) {
		t.Error("second remove should report false")
	}
	if len(snap) != 2 {
		t.Error("remove must not change an earlier snapshot")
	}
	if got := s.snapshot(); len(got) != 1 || got[0] != Listener(b) {
		t.Errorf("snapshot after remove = %v, want [b]", got)
	}
}
