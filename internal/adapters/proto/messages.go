package proto

import "encoding/json"

// Message type discriminators defined by the server protocol.
const (
	typeHello    = "hello"
	typeReply    = "reply"
	typeError    = "error"
	typeProgress = "progress"
	typeMessage  = "message"
	typeSignal   = "signal"
)

// Request kinds the client issues.
const (
	kindHandshake   = "handshake"
	kindConfigure   = "configure"
	kindCompute     = "compute"
	kindCodeModel   = "codemodel"
	kindCache       = "cache"
	kindCMakeInputs = "cmakeInputs"
)

// envelope is the decoded shape common to every server-to-client message.
// Raw keeps the full payload for reply-specific decoding.
type envelope struct {
	Type         string `json:"type"`
	InReplyTo    string `json:"inReplyTo"`
	Cookie       string `json:"cookie"`
	ErrorMessage string `json:"errorMessage"`

	ProgressMessage string `json:"progressMessage"`
	ProgressMinimum int    `json:"progressMinimum"`
	ProgressCurrent int    `json:"progressCurrent"`
	ProgressMaximum int    `json:"progressMaximum"`

	Message string `json:"message"`
	Title   string `json:"title"`
	Name    string `json:"name"`

	Raw json.RawMessage `json:"-"`
}

// ProtocolVersion is one protocol version pair from the server hello.
type ProtocolVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

type helloBody struct {
	SupportedProtocolVersions []ProtocolVersion `json:"supportedProtocolVersions"`
}

// handshakeRequest binds the server to one source/binary directory pair and
// generator for its whole lifetime; changing any of them requires a restart.
type handshakeRequest struct {
	Type            string          `json:"type"`
	Cookie          string          `json:"cookie"`
	ProtocolVersion ProtocolVersion `json:"protocolVersion"`
	SourceDirectory string          `json:"sourceDirectory"`
	BuildDirectory  string          `json:"buildDirectory"`
	Generator       string          `json:"generator"`
	Platform        string          `json:"platform,omitempty"`
	Toolset         string          `json:"toolset,omitempty"`
}

type configureRequest struct {
	Type           string   `json:"type"`
	Cookie         string   `json:"cookie"`
	CacheArguments []string `json:"cacheArguments,omitempty"`
}

type plainRequest struct {
	Type   string `json:"type"`
	Cookie string `json:"cookie"`
}

// cacheReply is the payload of a reply to a cache request.
type cacheReply struct {
	Cache []CacheEntryMsg `json:"cache"`
}

// CacheEntryMsg is one cache entry as the server reports it.
type CacheEntryMsg struct {
	Key        string            `json:"key"`
	Value      string            `json:"value"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// cmakeInputsReply lists the files that fed the last configure.
type cmakeInputsReply struct {
	BuildFiles []struct {
		IsCMake     bool     `json:"isCMake"`
		IsTemporary bool     `json:"isTemporary"`
		Sources     []string `json:"sources"`
	} `json:"buildFiles"`
	CMakeRootDirectory string `json:"cmakeRootDirectory"`
	SourceDirectory    string `json:"sourceDirectory"`
}

// codeModelReply mirrors the subset of the codemodel reply the driver needs.
type codeModelReply struct {
	Configurations []struct {
		Name     string `json:"name"`
		Projects []struct {
			Name            string `json:"name"`
			SourceDirectory string `json:"sourceDirectory"`
			Targets         []struct {
				Name            string   `json:"name"`
				Type            string   `json:"type"`
				SourceDirectory string   `json:"sourceDirectory"`
				Artifacts       []string `json:"artifacts"`
			} `json:"targets"`
		} `json:"projects"`
	} `json:"configurations"`
}
