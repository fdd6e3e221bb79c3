// Package bedrock implements provider.Provider on top of the AWS Bedrock
// Runtime InvokeModelWithResponseStream API. Chunk payloads are passed
// through verbatim; their JSON schema depends on the model family.
package bedrock
