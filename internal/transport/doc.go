// Package transport connects to log emitters over websockets.
//
// # Overview
//
// Dialer implements stream.Dialer on top of gorilla/websocket. Dial returns
// right away and runs the handshake and read loop on a goroutine; everything
// it learns is reported as stream events:
//
//	handshake ok        → opened
//	text/binary frame   → message (trailing CR/LF trimmed)
//	normal/going-away   → closed
//	Close() by the user → closed
//	anything else       → error, then closed
//
// # Addresses
//
// ParseAddress accepts the forms users type into the address field:
//
//   - host              → ws://host:5804
//   - host:port         → ws://host:port
//   - ws:// or wss://   → used as-is, default port added when missing
//   - http:// https://  → rewritten to ws:// wss://
//
// # Timeouts
//
// Options.HandshakeTimeout is zero by default, so a stuck handshake keeps
// the session in the connecting state until the network fails or the user
// disconnects.
package transport
