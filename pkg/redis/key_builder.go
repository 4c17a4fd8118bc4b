package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeySnapshot returns the prefixed key holding the activity list snapshot
func (kb *KeyBuilder) KeySnapshot() string {
	return kb.BuildKey(KeySnapshot)
}

// KeySnapshotWrittenAt returns the prefixed key holding the snapshot timestamp
func (kb *KeyBuilder) KeySnapshotWrittenAt() string {
	return kb.BuildKey(KeySnapshotWrittenAt)
}
