// network/protocol.go
package network

const (
	MsgTypeHeartbeat = 1
	MsgTypeError     = 2

	MsgTypeCreateMatch  = 101
	MsgTypeJoinMatch    = 102
	MsgTypeLeaveMatch   = 103
	MsgTypeLoadPlaylist = 104

	MsgTypeGameAction = 201

	MsgTypeStateSync = 301

	MsgTypePlaySnippet   = 401
	MsgTypeStopSnippet   = 402
	MsgTypeResumeSnippet = 403
	MsgTypeSnippetEnded  = 404
	MsgTypePlaybackError = 405
)
