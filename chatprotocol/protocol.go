package chatprotocol

// Command words of the wire protocol.
const (
	KeywordLogin          = "login"
	KeywordLoginOK        = "loginok"
	KeywordLoginError     = "loginerr"
	KeywordPublicMessage  = "msg"
	KeywordPrivateMessage = "privmsg"
	KeywordMessageOK      = "msgok"
	KeywordMessageError   = "msgerr"
	KeywordCommandError   = "cmderr"
	KeywordUsers          = "users"
	KeywordHelp           = "help"
	KeywordSupported      = "supported"
)

const (
	// LineTerminator ends every protocol line.
	LineTerminator = "\n"

	// MaxLineLength is the longest inbound line accepted, in bytes, not
	// counting the terminator. Longer lines are dropped.
	MaxLineLength = 4096

	// DefaultPort is the port chat servers listen on unless configured otherwise.
	DefaultPort = 1300

	// DefaultLoginError is reported when the server rejects a login without
	// giving a reason.
	DefaultLoginError = "login rejected"
)
