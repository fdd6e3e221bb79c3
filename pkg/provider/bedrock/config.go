package bedrock

// Config holds configuration for the Bedrock provider adapter.
type Config struct {
	// Region overrides the AWS region from the ambient configuration.
	Region string

	// Profile selects a named profile from the shared AWS config files.
	Profile string
}
