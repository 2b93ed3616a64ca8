package service

// NoticeSink receives the error messages meant for the shopper.
type NoticeSink interface {
	AddError(message string)
}

// NoticeList collects notices for a single request.
type NoticeList struct {
	messages []string
}

func (n *NoticeList) AddError(message string) {
	n.messages = append(n.messages, message)
}

func (n *NoticeList) Messages() []string {
	return n.messages
}
