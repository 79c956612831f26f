// Package websocket pushes QuickPlay session state to browsers.
//
// A central Hub tracks the clients listening to each session. Each client
// connection is served by a read goroutine and a write goroutine; all changes
// to the hub's registry go through the Run loop.
//
// Message Protocol:
//
// Clients connect to /ws?session=<id> and only receive. Every engine change,
// including the delayed memory card resolutions and the once-a-second timer
// tick, is pushed as one JSON text frame:
//
//	{"session_id": "a1b2", "event": "state_update", "data": {...SessionInfo...}}
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, info)
//
// Broadcasting never blocks the caller: when the outbound queue is full the
// message is dropped and a warning is logged. Deleting a session closes its
// connections through CloseSession.
package websocket
