// Package model defines the vendor-neutral boundary to the text-generation
// dependency. Concrete providers live in the openai and anthropic
// subpackages; MockModel serves tests and examples.
package model
