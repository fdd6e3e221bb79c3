// Command server runs slipstream, a streaming proxy that relays LLM
// backend output to HTTP clients as server-sent events.
//
// Usage:
//
//	# Start with discovered configuration (./config.yaml, /etc/slipstream/config.yaml)
//	slipstream
//
//	# Start with an explicit configuration file
//	slipstream --config /path/to/config.yaml
//
//	# Override the port and log level
//	slipstream --port 8080 --log-level debug
//
//	# Show version information
//	slipstream version
//
// Every setting can also be given as a SLIPSTREAM_* environment variable,
// optionally from a .env file in the working directory.
package main

func main() {
	Execute()
}
