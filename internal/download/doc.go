// Package download fetches a single YouTube stream to disk. Stream metadata
// and transport come from a pluggable Fetcher backend (ytget/ytdlp by default,
// kkdai/youtube as an alternative); stream choice, file naming and progress
// reporting are shared by both backends.
package download
