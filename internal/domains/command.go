package domains

// Command is a single chat instruction. It is derived per message and never stored.
type Command struct {
	Verb         string `json:"verb"`
	RawArgs      string `json:"raw_args"`
	Text         string `json:"text"`
	SourceUserID string `json:"user"`
	ChannelID    string `json:"channel"`
}
