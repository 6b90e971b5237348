package metrics

// Prometheus metric labels.
const (
	// 02-client labels

	LabelClientType = "client_type"
	LabelUpdateType = "update_type"
	LabelMsgType    = "msg_type"

	// proof verification labels

	LabelVerifyType = "verify_type"
	LabelResult     = "result"
)
