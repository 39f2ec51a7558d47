package socks5

// State is a step of the server handshake. States only move forward.
type State uint8

const (
	StateStart State = iota
	StateVersionRead
	StateMethodsRead
	StateMethodAck
	StateVersionConfirm
	StateCommandRead
	StateReservedSkip
	StateAddressTypeRead
	StateAddressRead
	StateResolve
	StateConnect
	StateReplyWrite
	StateDone
)

var stateNames = [...]string{
	StateStart:           "start",
	StateVersionRead:     "version read",
	StateMethodsRead:     "methods read",
	StateMethodAck:       "method ack",
	StateVersionConfirm:  "version confirm",
	StateCommandRead:     "command read",
	StateReservedSkip:    "reserved skip",
	StateAddressTypeRead: "address type read",
	StateAddressRead:     "address read",
	StateResolve:         "resolve",
	StateConnect:         "connect",
	StateReplyWrite:      "reply write",
	StateDone:            "done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown state"
}
