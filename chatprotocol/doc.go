// Package chatprotocol implements the client side of a line-oriented text
// chat protocol carried over one persistent connection.
//
// # Protocol Overview
//
// Every line is one command: a command word, optionally followed by
// whitespace and arguments, terminated by a newline.
//
//	Client -> Server:   login <username>
//	                    msg <text...>
//	                    privmsg <recipient> <text...>
//	                    users
//	                    help
//	Server -> Client:   loginok | loginerr
//	                    msg <sender> <text...>
//	                    privmsg <sender> <text...>
//	                    msgok | msgerr <description>
//	                    cmderr <description>
//	                    users <user...>
//	                    supported <command...>
//
// # Basic Usage
//
//	client := chatprotocol.NewClient()
//	client.AddListener(myListener)
//
//	if err := client.Connect(ctx, "localhost", chatprotocol.DefaultPort); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect()
//
//	client.TryLogin("alice")
//	client.SendPublicMessage("hello everyone")
//
// # Event Handling
//
// Listeners implement the Listener interface and are called on the client's
// reader goroutine, in registration order. Embed BaseListener to implement
// only the callbacks you need, or register a ChannelListener and consume
// Event values from your own goroutine:
//
//	events := chatprotocol.NewChannelListener(64)
//	client.AddListener(events)
//	go func() {
//	    for ev := range events.Events() {
//	        switch ev.Type {
//	        case chatprotocol.EventMessage:
//	            fmt.Printf("%s: %s\n", ev.Text.Sender, ev.Text.Text)
//	        case chatprotocol.EventDisconnect:
//	            fmt.Println("disconnected")
//	        }
//	    }
//	}()
//
// # Error Handling
//
// A failure to read from or write to the connection is fatal for that
// connection: the client disconnects and listeners receive OnDisconnect
// exactly once. A malformed or unknown line is logged and skipped; the
// reader carries on with the next line.
//
// # Thread Safety
//
// Client and Conn are safe for concurrent use. Sending and receiving use
// independent directions of the connection and do not block each other.
package chatprotocol
