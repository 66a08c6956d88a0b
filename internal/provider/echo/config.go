package echo

// Config contains echo provider configuration.
type Config struct {
	// Response is returned verbatim when set; otherwise the prompts are echoed back.
	Response string `env:"ECHO_RESPONSE"`
	// Error makes every call fail with this message when set.
	Error string `env:"ECHO_ERROR"`
}
