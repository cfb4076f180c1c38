//go:generate go run go.uber.org/mock/mockgen -source=types.go -destination=mock_fanout_test.go -package=chat -self_package=github.com/andy6609/chat-relay/internal/chat
package chat

// DefaultReadBufferSize is the per-read chunk size. A payload larger than this
// arrives split across several reads and is relayed as several messages.
const DefaultReadBufferSize = 1024

// SystemSender tags notices synthesized by the server.
const SystemSender = "SERVER"

// ChatMessage is one relayed unit: the raw bytes of a single read, tagged with
// the nickname of the peer that produced it.
type ChatMessage struct {
	Sender string
	Body   []byte
	Type   MessageType
}

type MessageType string

const (
	MessageChat   MessageType = "chat"
	MessageJoin   MessageType = "join"
	MessageLeave  MessageType = "leave"
	MessageSystem MessageType = "system"
)

func NewChatMessage(sender string, body []byte) ChatMessage {
	b := make([]byte, len(body))
	copy(b, body)
	return ChatMessage{Sender: sender, Body: b, Type: MessageChat}
}

func SystemMessage(text string) ChatMessage {
	return ChatMessage{Sender: SystemSender, Body: []byte(text), Type: MessageSystem}
}

func JoinNotice(nickname string) ChatMessage {
	m := SystemMessage(nickname + " joined the chat!")
	m.Type = MessageJoin
	return m
}

func LeaveNotice(nickname string) ChatMessage {
	m := SystemMessage(nickname + " left the chat.")
	m.Type = MessageLeave
	return m
}

// IsSystem reports whether the server synthesized the message.
func (m ChatMessage) IsSystem() bool {
	return m.Type != MessageChat
}

// Bytes renders the wire form: "[<sender>] <body>".
func (m ChatMessage) Bytes() []byte {
	out := make([]byte, 0, len(m.Sender)+3+len(m.Body))
	out = append(out, '[')
	out = append(out, m.Sender...)
	out = append(out, ']', ' ')
	return append(out, m.Body...)
}

func (m ChatMessage) String() string {
	return string(m.Bytes())
}

// Fanout delivers a message to every registered peer except excludeID and
// reports how many peers received it. An empty excludeID excludes nobody.
type Fanout interface {
	Broadcast(msg ChatMessage, excludeID string) int
}

var (
	ErrDuplicateConnection = errorString("duplicate_connection")
	ErrHandshake           = errorString("handshake_failed")
	ErrServerClosed        = errorString("server_closed")
)

type errorString string

func (e errorString) Error() string { return string(e) }
