package connectors

const (
	TopicConnStatus   = "conn.status"
	TopicSignalUpdate = "signal.update"
	TopicRawFrameIn   = "raw.frame.in"
)
