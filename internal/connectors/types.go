package connectors

import "time"

// ConnectionState describes the connector lifecycle state.
type ConnectionState string

const (
	ConnectionStateDisconnected ConnectionState = "disconnected"
	ConnectionStateConnecting   ConnectionState = "connecting"
	ConnectionStateConnected    ConnectionState = "connected"
	ConnectionStateReconnecting ConnectionState = "reconnecting"
)

// ConnStatus is a bus event snapshot of the current connector status.
type ConnStatus struct {
	State         ConnectionState
	Err           string
	TransportName string
	Timestamp     time.Time
}

// RawFrame carries frame diagnostics for debug logging.
type RawFrame struct {
	Hex string
	Len int
}
