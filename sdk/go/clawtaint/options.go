package clawtaint

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	configPath string
	sessionID  string
}

// WithConfig sets the path to a config YAML file. Without it the default
// location (~/.clawtaint/config.yaml) and then built-in defaults apply.
func WithConfig(path string) Option {
	return func(c *clientConfig) { c.configPath = path }
}

// WithSessionID pins the client's default session identifier. Without it
// a fresh one is generated, scoping trust state to this Client.
func WithSessionID(id string) Option {
	return func(c *clientConfig) { c.sessionID = id }
}
