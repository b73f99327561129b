package domain

// Message is one entry of the append-only chat log. Insertion order is
// delivery order; no reordering is attempted.
type Message struct {
	Sender  string
	Content string
	IsMine  bool
}

func NewMessage(sender, content string, isMine bool) Message {
	return Message{
		Sender:  sender,
		Content: content,
		IsMine:  isMine,
	}
}
