// Package changefeed broadcasts committed record changes. The Bus delivers events
// in process; Handler and Watch carry the same events over a WebSocket.
package changefeed
