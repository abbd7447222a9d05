// Package extract turns unreliable free-form agent replies into structured
// candidate values and coerces them into strict record types. Extraction
// and normalization are total functions: parse failures yield nil or
// default-filled records, never errors. Only the generation and tool
// boundaries produce true failure signals.
package extract
