package registration

// ErrorMessageType is the message type that marks a flow as failed.
const ErrorMessageType = "error"

// Classify inspects a parsed flow's messages. It returns nil when no message
// has type "error", and a *MessagesError holding the error messages, in their
// original order, otherwise. Other message types and the field list never
// affect the result.
func Classify(flow *Flow) error {
	var failed []Message
	for _, m := range flow.Form().Messages {
		if m.Type == ErrorMessageType {
			failed = append(failed, m)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &MessagesError{Messages: failed}
}
